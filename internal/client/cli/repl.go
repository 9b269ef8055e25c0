package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a recording stub.
type execIface interface {
	isLoggedIn() bool

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	ListFiles(ctx context.Context) error
	ChangeDir(ctx context.Context, ref string) error
	MakeDir(ctx context.Context, name string) error
	Put(ctx context.Context, ref string) error
	Get(ctx context.Context, ref, dest string) error
	Remove(ctx context.Context, ref string) error
	Stats(ctx context.Context) error

	Notes(ctx context.Context) error
	ShowNote(ctx context.Context, id string) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context, id string) error
	RemoveNote(ctx context.Context, id string) error

	Tasks(ctx context.Context) error
	AddTask(ctx context.Context) error
	EditTask(ctx context.Context, id string) error
	CompleteTask(ctx context.Context, id string) error
	RemoveTask(ctx context.Context, id string) error
}

const (
	helpGuest = "Available commands: login, whoami, help, exit"
	helpUser  = `Available commands:
  files:  ls, cd <folder|..|/>, mkdir <name>, put <path|s3://|url>, get <file> [dest], rm <file>, stats
  notes:  notes, note <id>, note-add, note-edit <id>, note-rm <id>
  tasks:  tasks, task-add, task-edit <id>, task-done <id>, task-rm <id>
  session: whoami, logout, help, exit`
)

// usage maps commands taking arguments to their minimal arity and usage line.
var usage = map[string]struct {
	args int
	text string
}{
	"mkdir":     {1, "usage: mkdir <name>"},
	"put":       {1, "usage: put <path|s3://bucket/key|url>"},
	"get":       {1, "usage: get <file> [dest]"},
	"rm":        {1, "usage: rm <file>"},
	"note":      {1, "usage: note <id>"},
	"note-edit": {1, "usage: note-edit <id>"},
	"note-rm":   {1, "usage: note-rm <id>"},
	"task-edit": {1, "usage: task-edit <id>"},
	"task-done": {1, "usage: task-done <id>"},
	"task-rm":   {1, "usage: task-rm <id>"},
}

// guestCommands work without a session.
var guestCommands = map[string]bool{
	"help": true, "login": true, "whoami": true, "exit": true, "quit": true,
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is done. Handlers report failures through the notifier, so their
// errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("zo %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !guestCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		if u, ok := usage[cmd]; ok && len(args) < u.args {
			printlnFn(u.text)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)

		case "ls":
			_ = a.ListFiles(ctx)
		case "cd":
			ref := "/"
			if len(args) > 0 {
				ref = strings.Join(args, " ")
			}
			_ = a.ChangeDir(ctx, ref)
		case "mkdir":
			_ = a.MakeDir(ctx, strings.Join(args, " "))
		case "put":
			_ = a.Put(ctx, args[0])
		case "get":
			dest := "."
			if len(args) > 1 {
				dest = args[1]
			}
			_ = a.Get(ctx, args[0], dest)
		case "rm":
			_ = a.Remove(ctx, args[0])
		case "stats":
			_ = a.Stats(ctx)

		case "notes":
			_ = a.Notes(ctx)
		case "note":
			_ = a.ShowNote(ctx, args[0])
		case "note-add":
			_ = a.AddNote(ctx)
		case "note-edit":
			_ = a.EditNote(ctx, args[0])
		case "note-rm":
			_ = a.RemoveNote(ctx, args[0])

		case "tasks":
			_ = a.Tasks(ctx)
		case "task-add":
			_ = a.AddTask(ctx)
		case "task-edit":
			_ = a.EditTask(ctx, args[0])
		case "task-done":
			_ = a.CompleteTask(ctx, args[0])
		case "task-rm":
			_ = a.RemoveTask(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
