// Package cli is the interactive ZeroOS workspace client.
//
// App wires configuration, the session gate, the collection synchronizer
// and the transfer orchestrator behind a line-oriented REPL. The prompt
// shows the signed-in principal, the working folder and whether the
// service is reachable.
//
// Commands:
//   - login, logout, whoami
//   - ls, cd, mkdir, put, get, rm, stats
//   - notes, note, note-add, note-edit, note-rm
//   - tasks, task-add, task-edit, task-done, task-rm
//
// App.Run blocks until the user exits or the context is cancelled.
package cli
