package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/services"
)

// getPIN is swapped in tests.
var getPIN = GetPIN

// Login prompts for a PIN and authenticates against the server. When the
// server cannot be reached the app stays usable in offline mode.
func (a *App) Login(ctx context.Context, _ []string) error {
	pin, err := getPIN(a.out)
	if err != nil {
		return err
	}

	role, err := a.authService.Login(ctx, pin)
	switch {
	case err == nil:
		a.mu.Lock()
		a.role = role
		a.mu.Unlock()
		a.setMode(ModeOnline)
		fmt.Fprintf(a.out, "Logged in as %s\n", role)
		return nil
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, services.ErrNoRemote):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, working offline")
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		return errors.New("wrong PIN")
	}
	return err
}

func (a *App) getStatus() string {
	a.mu.RLock()
	s := string(a.mode)
	if a.role != "" {
		s = a.role + " " + s
	}
	a.mu.RUnlock()

	if f := a.currentForm(); f != nil {
		s += " " + string(f.Kind())
		if f.Dirty() {
			s += "*"
		}
	}
	return fmt.Sprintf("(%s)", s)
}

// Status prints the connection state, the user and the open form.
func (a *App) Status(ctx context.Context, _ []string) error {
	a.mu.RLock()
	mode, role := a.mode, a.role
	a.mu.RUnlock()

	fmt.Fprintf(a.out, "mode:     %s\n", mode)
	if role == "" {
		role = "-"
	}
	fmt.Fprintf(a.out, "role:     %s\n", role)
	fmt.Fprintf(a.out, "user:     %s\n", a.config.UserName)
	fmt.Fprintf(a.out, "database: %s\n", a.config.DatabasePath)

	if f := a.currentForm(); f != nil {
		state := "clean"
		if f.Dirty() {
			state = "unsaved changes"
		}
		fmt.Fprintf(a.out, "form:     %s %s (%s)\n", f.Kind(), f.Record().GetMeta().ID, state)
	}

	pending, err := a.drafts.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range pending {
		fmt.Fprintf(a.out, "draft:    %s saved %s\n", d.Key, d.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
