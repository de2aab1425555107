// Package cli provides the interactive meetups command-line client.
//
// It drives the action layer from a small REPL and renders the derived
// views of the store. A cron schedule reloads meetups in the background
// while the shell is open, and every committed mutation is logged at debug
// level.
//
// Commands:
//   - register / login / logout
//   - load, list, featured, show <id>
//   - create, update <id>
//   - status, clearerror, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// the input ends.
package cli
