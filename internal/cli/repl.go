package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	ToggleArchived(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	New(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Notices(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command and dispatches
// to methods on a. It exits on scanner EOF or when the user types "exit" or
// "quit". Handler errors are printed, never fatal; the loop stays up.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, out io.Writer) {
	fmt.Fprintln(out, "notewire (type 'help' for commands)")

	for {
		fmt.Fprintf(out, "nw %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: (l)ist [page], next, prev, archived, open <n|id>, new, delete <n|id>, share <n|id> [email] [read|write], notices, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx, args)

		case "next", "n":
			err = a.NextPage(ctx)

		case "prev", "p":
			err = a.PrevPage(ctx)

		case "archived":
			err = a.ToggleArchived(ctx)

		case "open", "o", "edit":
			err = a.Open(ctx, args)

		case "new", "add":
			err = a.New(ctx)

		case "delete", "rm":
			err = a.Delete(ctx, args)

		case "share":
			err = a.Share(ctx, args)

		case "notices":
			err = a.Notices(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}
