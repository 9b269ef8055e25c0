package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in as", a.gate.State().Principal())
		return nil
	}
	if err := a.gate.Login(ctx); err != nil {
		return err
	}
	a.resetPath()
	if a.workspace.Connected() {
		a.setMode(ModeOnline)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.gate.Logout(ctx)
	a.resetPath()
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.gate.State()
	switch {
	case !s.IsAuthenticated():
		fmt.Fprintln(a.out, "Not logged in")
	case s.Mock:
		fmt.Fprintf(a.out, "%s (development identity)\n", s.Principal())
	default:
		fmt.Fprintf(a.out, "%s (delegation expires %s)\n", s.Principal(), s.Identity.Expires().Local().Format(timeLayout))
	}
	return nil
}
