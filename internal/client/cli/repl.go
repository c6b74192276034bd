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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Navigate(ctx context.Context, path string) error
	Back(ctx context.Context) error
	Reload(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Invoke(ctx context.Context, name string, args []string) (bool, error)
	Help() []string
}

// runREPL starts a simple read-eval-print loop for the isoko CLI.
//
// Each line is split into a command and its arguments. Built-in commands
// navigate between pages and manage the session; anything else is looked up
// among the actions of the page on screen, including actions the page does
// not advertise to the current user. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	help                 list commands for the current page
//	go <path> | <path>   open a page, e.g. "go /documents" or "/document/7"
//	back | reload        history navigation
//	login | register     open the login or registration page
//	logout | whoami      session commands
//	exit | quit          leave the program
//
// Errors from commands are reported by the commands themselves, so the loop
// stays focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("isoko %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch {
		case cmd == "help":
			for _, l := range a.Help() {
				printlnFn("  " + l)
			}

		case cmd == "go" || cmd == "cd":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			_ = a.Navigate(ctx, args[0])

		case strings.HasPrefix(cmd, "/"):
			_ = a.Navigate(ctx, cmd)

		case cmd == "back":
			_ = a.Back(ctx)

		case cmd == "reload":
			_ = a.Reload(ctx)

		case cmd == "logout":
			_ = a.Logout(ctx)

		case cmd == "whoami":
			_ = a.Whoami(ctx)

		case cmd == "exit" || cmd == "quit":
			printlnFn("Bye!")
			return

		default:
			handled, _ := a.Invoke(ctx, cmd, args)
			if handled {
				continue
			}
			switch cmd {
			case "login", "register":
				_ = a.Navigate(ctx, "/"+cmd)
			default:
				printlnFn("Unknown command:", cmd)
			}
		}

		if err != nil {
			return
		}
	}
}
