package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/clubhub/internal/client/browse"
	"github.com/dmitrijs2005/clubhub/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	List(ctx context.Context) error
	Select(ctx context.Context, arg string) error
	Back(ctx context.Context) error
	Jump(ctx context.Context, arg string) error
	Path(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Reset(ctx context.Context) error
	Retry(ctx context.Context) error

	Events(ctx context.Context) error

	Pending(ctx context.Context) error
	Validate(ctx context.Context, arg string) error
	Reject(ctx context.Context, arg string) error

	Lang(ctx context.Context, arg string) error
}

var errSignInRequired = errors.New("sign in first ('login' or 'register')")

var errAdminOnly = errors.New("admins only")

// runREPL starts the read–eval–print loop of the club client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. A returned error is printed as a one-line
// notification and the loop continues. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help            show available commands
//	  - lang [code]     show or set the preferred language
//	  - exit | quit     leave the program
//
//	Not logged in:
//	  - register        create an account
//	  - login           authenticate
//
//	Logged in:
//	  - ls              list the current level
//	  - cd <n>          open entry n of the current level
//	  - back            go up one level
//	  - jump <depth>    go to a breadcrumb (0 = All Departments)
//	  - path            show the breadcrumbs
//	  - search [text]   filter the current level; no text clears
//	  - reset           start over from All Departments
//	  - retry           re-run the last failed fetch
//	  - events          list upcoming events
//	  - whoami          show the signed-in user
//	  - logout          log out
//
//	Admins:
//	  - pending         list accounts awaiting validation
//	  - validate <n|all> validate pending account n, or all
//	  - reject <n>      reject pending account n
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("club %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(notification(err))
		}
	}
}

func arg0(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		printlnFn(helpText(a))
		return nil
	case "lang":
		return a.Lang(ctx, arg0(args))
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if isKnown(cmd) {
			return errSignInRequired
		}
		return fmt.Errorf("unknown command: %s", cmd)
	}

	switch cmd {
	case "ls", "l":
		return a.List(ctx)
	case "cd", "select":
		return a.Select(ctx, arg0(args))
	case "back", "..":
		return a.Back(ctx)
	case "jump":
		return a.Jump(ctx, arg0(args))
	case "path":
		return a.Path(ctx)
	case "search", "/":
		return a.Search(ctx, strings.Join(args, " "))
	case "reset":
		return a.Reset(ctx)
	case "retry":
		return a.Retry(ctx)
	case "events":
		return a.Events(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "logout":
		return a.Logout(ctx)
	case "pending", "validate", "reject":
		if !a.isAdmin() {
			return errAdminOnly
		}
		switch cmd {
		case "pending":
			return a.Pending(ctx)
		case "validate":
			return a.Validate(ctx, arg0(args))
		default:
			return a.Reject(ctx, arg0(args))
		}
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

var knownCommands = map[string]bool{
	"ls": true, "l": true, "cd": true, "select": true, "back": true, "..": true,
	"jump": true, "path": true, "search": true, "/": true, "reset": true,
	"retry": true, "events": true, "whoami": true, "logout": true,
	"pending": true, "validate": true, "reject": true,
}

func isKnown(cmd string) bool { return knownCommands[cmd] }

func helpText(a execIface) string {
	switch {
	case a.isAdmin():
		return "Available commands: ls, cd <n>, back, jump <depth>, path, search [text], reset, retry, events, pending, validate <n|all>, reject <n>, whoami, lang [code], logout, exit"
	case a.isLoggedIn():
		return "Available commands: ls, cd <n>, back, jump <depth>, path, search [text], reset, retry, events, whoami, lang [code], logout, exit"
	default:
		return "Available commands: register, login, lang [code], exit"
	}
}

// notification renders err as the one-line message shown to the user.
func notification(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired. Please log in again ('login')."
	case errors.Is(err, browse.ErrSuperseded):
		return "info: a newer selection replaced this one"
	case client.IsRetryable(err):
		return fmt.Sprintf("error: %v (type 'retry' to try again)", err)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
