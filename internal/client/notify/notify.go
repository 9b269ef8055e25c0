// Package notify delivers user-visible notices.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows short messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Console prints notices to w, colored by level when the terminal
// supports it.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) print(l Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var line string
	switch l {
	case LevelSuccess:
		line = color.Green.Render("✔ " + msg)
	case LevelError:
		line = color.Red.Render("✘ " + msg)
	default:
		line = color.Cyan.Render("• " + msg)
	}
	fmt.Fprintln(c.w, line)
}

func (c *Console) Success(msg string) { c.print(LevelSuccess, msg) }
func (c *Console) Error(msg string)   { c.print(LevelError, msg) }
func (c *Console) Info(msg string)    { c.print(LevelInfo, msg) }

// Entry is one notice captured by a Recorder.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: l, Message: msg})
	r.mu.Unlock()
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }

// Entries returns a copy of the recorded notices.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}
