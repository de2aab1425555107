package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL needs.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Load(ctx context.Context) error
	List(ctx context.Context) error
	Featured(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Update(ctx context.Context, id string) error
	Status(ctx context.Context) error
	ClearError(ctx context.Context) error
}

const (
	guestHelp  = "Available commands: register, login, load, list, featured, show <id>, status, clearerror, exit"
	memberHelp = "Available commands: load, (l)ist, featured, show <id>, create, update <id>, status, clearerror, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit"/"quit", or when ctx is cancelled.
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "meetups (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, memberHelp)
			} else {
				fmt.Fprintln(w, guestHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "load":
			_ = a.Load(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "featured":
			_ = a.Featured(ctx)

		case "show":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "create":
			_ = a.Create(ctx)

		case "update":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: update <id>")
				continue
			}
			_ = a.Update(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "clearerror":
			_ = a.ClearError(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
