package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/wardminutes/internal/filex"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("export <file> [kind...]")
	}
	kinds := make([]records.Kind, 0, len(args)-1)
	for _, name := range args[1:] {
		k, err := records.ParseKind(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}

	if err := filex.EnsureParentDir(args[0]); err != nil {
		return err
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := a.transfer.Export(ctx, f, kinds...); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported to %s\n", args[0])
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := a.transfer.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d records (%d saved remotely)\n", rep.Saved, rep.SavedRemotely)
	for _, fail := range rep.Failures {
		fmt.Fprintf(a.out, "  failed %s\n", fail.Error())
	}
	return nil
}

func (a *App) Backup(ctx context.Context, _ []string) error {
	key, err := a.transfer.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Backup uploaded as %s\n", key)
	return nil
}
