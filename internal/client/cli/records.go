package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/services"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (a *App) collection(name string) (services.Collection, error) {
	k, err := records.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return a.stores.Collection(k)
}

func (a *App) List(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("list <kind>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	rs, err := coll.GetAll(ctx)
	if err != nil {
		return err
	}
	printTable(a.out, rs)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("show <kind> <id>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	r, err := coll.GetByID(ctx, args[1])
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%s %s not found", args[0], args[1])
	}
	if err != nil {
		return err
	}
	return printRecord(a.out, r)
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("search <kind> <YYYY-MM-DD>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	d := records.Date(args[1])
	if !d.Valid() {
		return fmt.Errorf("invalid date %q", args[1])
	}
	rs, err := coll.SearchByDate(ctx, d)
	if err != nil {
		return err
	}
	printTable(a.out, rs)
	return nil
}

func (a *App) Range(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("range <kind> <from> <to>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	rs, err := coll.SearchByDateRange(ctx, records.Date(args[1]), records.Date(args[2]))
	if err != nil {
		return err
	}
	printTable(a.out, rs)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("delete <kind> <id>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	if !confirm(a.reader, fmt.Sprintf("Delete %s %s?", args[0], args[1]), a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := coll.Delete(ctx, args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
