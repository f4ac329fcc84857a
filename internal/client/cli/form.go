package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wardminutes/internal/client/services"
	"github.com/dmitrijs2005/wardminutes/internal/records"
)

var (
	errNoForm   = errors.New("no open form; use new, edit or recover")
	errFormOpen = errors.New("a form with unsaved changes is open; save or discard it first")
)

func (a *App) currentForm() *services.FormSession {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.form
}

func (a *App) hasForm() bool { return a.currentForm() != nil }

// openForm replaces the open form with f and starts its auto-save loop.
func (a *App) openForm(ctx context.Context, f *services.FormSession) error {
	if cur := a.currentForm(); cur != nil && cur.Dirty() {
		return errFormOpen
	}
	a.closeForm(ctx, false)

	fctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Run(fctx, a.config.AutosaveInterval)
	}()

	a.mu.Lock()
	a.form, a.stopForm, a.formClosed = f, cancel, done
	a.mu.Unlock()
	return nil
}

// closeForm stops the auto-save loop. With flush, pending changes are
// written to the draft slot first.
func (a *App) closeForm(ctx context.Context, flush bool) {
	a.mu.Lock()
	f, stop, done := a.form, a.stopForm, a.formClosed
	a.form, a.stopForm, a.formClosed = nil, nil, nil
	a.mu.Unlock()

	if f == nil {
		return
	}
	stop()
	<-done
	if flush {
		if saved, err := f.Autosave(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "final autosave failed", "error", err)
		} else if saved {
			fmt.Fprintf(a.out, "Unsaved %s form kept as draft\n", f.Kind())
		}
	}
}

func (a *App) requireForm() (*services.FormSession, error) {
	f := a.currentForm()
	if f == nil {
		return nil, errNoForm
	}
	return f, nil
}

func (a *App) New(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("new <kind>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	if d, err := a.drafts.Get(ctx, services.DraftKey(coll.Kind())); err == nil && d != nil {
		fmt.Fprintf(a.out, "A %s draft from %s exists; 'recover %s' continues it\n",
			coll.Kind(), d.SavedAt.Local().Format("2006-01-02 15:04"), coll.Kind())
	}
	if err := a.openForm(ctx, services.NewForm(coll, a.drafts, a.log)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "New %s form\n", coll.Kind())
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("edit <kind> <id>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	f, err := services.OpenForm(ctx, coll, a.drafts, args[1], a.log)
	if err != nil {
		return err
	}
	if err := a.openForm(ctx, f); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Editing %s %s\n", coll.Kind(), args[1])
	return nil
}

func (a *App) Recover(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("recover <kind>")
	}
	coll, err := a.collection(args[0])
	if err != nil {
		return err
	}
	f, err := services.RecoverDraft(ctx, coll, a.drafts, a.log)
	if err != nil {
		return err
	}
	if err := a.openForm(ctx, f); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recovered %s draft\n", coll.Kind())
	return nil
}

// Set assigns a field. Without a value on the command line the value is
// read as multi-line text.
func (a *App) Set(_ context.Context, args []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("set <field> [value]")
	}
	value := strings.Join(args[1:], " ")
	if len(args) == 1 {
		value, err = GetMultiline(a.reader, "Enter "+args[0], a.out)
		if err != nil {
			return err
		}
	}
	return f.Set(args[0], value)
}

func (a *App) Add(_ context.Context, args []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("add <list> [value]")
	}
	id, err := f.Add(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", id)
	return nil
}

func (a *App) Remove(_ context.Context, args []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usage("remove <list> <id>")
	}
	return f.Remove(args[0], strings.Join(args[1:], " "))
}

func (a *App) View(_ context.Context, _ []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	return printRecord(a.out, f.Record())
}

func (a *App) Validate(_ context.Context, _ []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	errs := f.Validate()
	if len(errs) == 0 {
		fmt.Fprintln(a.out, "No problems found")
		return nil
	}
	fmt.Fprintln(a.out, "Problems:")
	printFieldErrors(a.out, errs)
	return nil
}

// Save validates and persists the open form, then closes it.
func (a *App) Save(ctx context.Context, _ []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}

	res, err := f.Save(ctx)
	var verr *records.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(a.out, "Not saved, fix these fields:")
		printFieldErrors(a.out, verr.Fields)
		return nil
	}
	if err != nil {
		return err
	}

	a.closeForm(ctx, false)
	where := "saved locally only"
	if res.PersistedRemotely {
		where = "saved"
	}
	fmt.Fprintf(a.out, "%s %s %s\n", f.Kind(), res.ID, where)
	return nil
}

func (a *App) Discard(ctx context.Context, _ []string) error {
	f, err := a.requireForm()
	if err != nil {
		return err
	}
	if f.Dirty() && !confirm(a.reader, "Discard unsaved changes?", a.out) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	a.closeForm(ctx, false)
	if err := f.Discard(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Form discarded")
	return nil
}
