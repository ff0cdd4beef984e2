package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Dispatch(ctx context.Context, cmd string, args []string) error
}

// publicCommands work without a session.
var publicCommands = map[string]bool{
	"help":           true,
	"login":          true,
	"register-admin": true,
	"health":         true,
}

const (
	helpLoggedOut = `Available commands:
  login              log in
  register-admin     create an admin account (development only)
  health             check the backend
  exit               leave the console`

	helpLoggedIn = `Available commands:
  dashboard                     stats and recent customers
  add                           add a booking
  list                          show the booking records
  search <text>                 search by name, mobile, Aadhaar, room or serial
  clear                         clear the search
  status <all|checked-in|checked-out>
  sort <checkIn|customerName|rent|room|status>
  range <from> <to> | range clear   filter by check-in date (YYYY-MM-DD)
  page <n>, next, prev          paginate
  refresh                       reload from the server
  show <serial|id>              booking details
  edit <serial|id>              edit a booking
  checkout <serial|id>          check the guest out today
  delete <serial|id>            delete a booking
  history <mobile|aadhaar>      earlier stays of a customer
  whoami, profile, passwd       your account
  health                        check the backend
  logout, exit`
)

// runREPL reads one command per line from reader and dispatches it to a.
//
// Protected commands redirect to login while logged out, and login while
// logged in shows the dashboard instead. Errors returned by handlers are
// printed and the loop continues. The loop exits on EOF or on "exit" and
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("desk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch {
		case cmd == "exit" || cmd == "quit":
			printlnFn("Bye!")
			return

		case cmd == "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case cmd == "login" && a.isLoggedIn():
			printlnFn("Already logged in.")
			cmd, args = "dashboard", nil

		case !publicCommands[cmd] && !a.isLoggedIn():
			printlnFn("Please log in first.")
			cmd, args = "login", nil
		}

		if err := a.Dispatch(ctx, cmd, args); err != nil {
			if errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
				continue
			}
			printlnFn(describe(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
