package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasForm() bool

	Status(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Range(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	New(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Recover(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Validate(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Discard(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
}

const (
	helpRecords = "Records: status, login, list <kind>, show <kind> <id>, search <kind> <date>, " +
		"range <kind> <from> <to>, delete <kind> <id>, new <kind>, edit <kind> <id>, recover <kind>, " +
		"export <file> [kind...], import <file>, backup, exit"
	helpForm  = "Form: set <field> [value], add <list> [value], remove <list> <id>, view, validate, save, discard"
	helpKinds = "Kinds: sacramental, baptismal, bishopric, ward_council, interviews"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The first token is the command, the rest are its arguments. Handler
// errors are printed and the loop goes on. It returns on EOF, on
// "exit"/"quit" or when ctx is done.
//
// Commands that prompt read their answers from the same reader, so the
// loop must not buffer ahead of them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("wm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			printlnFn(helpRecords)
			if a.hasForm() {
				printlnFn(helpForm)
			}
			printlnFn(helpKinds)

		case "status":
			err = a.Status(ctx, args)
		case "login":
			err = a.Login(ctx, args)

		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "range":
			err = a.Range(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)

		case "new":
			err = a.New(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "recover":
			err = a.Recover(ctx, args)
		case "set":
			err = a.Set(ctx, args)
		case "add":
			err = a.Add(ctx, args)
		case "remove":
			err = a.Remove(ctx, args)
		case "view":
			err = a.View(ctx, args)
		case "validate":
			err = a.Validate(ctx, args)
		case "save":
			err = a.Save(ctx, args)
		case "discard":
			err = a.Discard(ctx, args)

		case "export":
			err = a.Export(ctx, args)
		case "import":
			err = a.Import(ctx, args)
		case "backup":
			err = a.Backup(ctx, args)

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
