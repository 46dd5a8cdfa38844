package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	List(ctx context.Context) error
	Find(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Track(ctx context.Context) error
	Goto(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	GPS(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back. The
// loop exits on scanner EOF or on "exit"/"quit".
//
// Errors returned by command handlers are printed here and the loop
// continues; no command failure is fatal to the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("tk %s> ", statusFn())
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
			printHelp(a.isLoggedIn())

		case "signup":
			err = a.Signup(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "profile":
			if len(args) > 0 && args[0] == "set" {
				err = a.EditProfile(ctx)
			} else {
				err = a.ShowProfile(ctx)
			}

		case "l", "list":
			err = a.List(ctx)
		case "find":
			err = a.Find(ctx, args)
		case "select":
			err = a.Select(ctx, args)
		case "add":
			err = a.Add(ctx)
		case "edit":
			err = a.Edit(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "refresh":
			err = a.Refresh(ctx)

		case "track":
			err = a.Track(ctx)
		case "goto":
			err = a.Goto(ctx, args)
		case "history":
			err = a.History(ctx, args)

		case "gps":
			err = a.GPS(ctx, args)

		case "theme":
			err = a.Theme(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func printHelp(loggedIn bool) {
	if loggedIn {
		printlnFn("Available commands: (l)ist, find, select, add, edit, delete, refresh,")
		printlnFn("  track, goto, history, profile, profile set, gps check|verify|apply,")
		printlnFn("  theme, logout, exit")
	} else {
		printlnFn("Available commands: signup, login, theme, exit")
	}
}
