package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Contacts(ctx context.Context, args []string) error
	AddContact(ctx context.Context) error
	EditContact(ctx context.Context, args []string) error
	DeleteContact(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Calendars(ctx context.Context) error
	AddCalendar(ctx context.Context) error
	Appointments(ctx context.Context, args []string) error
	Book(ctx context.Context) error
	Fields(ctx context.Context) error
	AddField(ctx context.Context) error
	DelField(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

const helpText = `Available commands:
  contacts [query] [#tag]   list or search contacts
  addcontact                add a contact
  editcontact <id>          edit a contact
  delcontact <id>           delete a contact
  import <file>             import contacts from .csv or .vcf
  calendars                 list calendars
  addcalendar               add a calendar
  appointments [contactId]  list appointments
  book                      book an appointment
  fields                    show the contact form fields
  addfield                  add a custom field
  delfield <id>             remove a custom field
  whoami                    show the signed-in identity`

// runREPL starts a simple read-eval-print loop for the crmdesk CLI.
//
// It reads a line from reader, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
//
// Commands that prompt read from the same reader, so the loop must not
// buffer past the current line.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("crm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			if a.isLoggedIn() {
				printlnFn("  sync                      push local data and reload\n  logout                    sign out\n  exit                      leave the program")
			} else {
				printlnFn("  login                     sign in with an access token\n  exit                      leave the program")
			}

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)

		case "contacts", "c":
			_ = a.Contacts(ctx, args)
		case "addcontact":
			_ = a.AddContact(ctx)
		case "editcontact":
			_ = a.EditContact(ctx, args)
		case "delcontact":
			_ = a.DeleteContact(ctx, args)
		case "import":
			_ = a.Import(ctx, args)

		case "calendars":
			_ = a.Calendars(ctx)
		case "addcalendar":
			_ = a.AddCalendar(ctx)
		case "appointments":
			_ = a.Appointments(ctx, args)
		case "book":
			_ = a.Book(ctx)

		case "fields":
			_ = a.Fields(ctx)
		case "addfield":
			_ = a.AddField(ctx)
		case "delfield":
			_ = a.DelField(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
