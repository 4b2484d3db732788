package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	id, ok := a.ws.Session.Identity()
	if !ok {
		return "(anonymous)"
	}
	mode := "local"
	if a.ws.RemoteEnabled() {
		mode = "remote"
	}
	return fmt.Sprintf("(%s %s)", id.Email, mode)
}

// Root runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to crmdesk (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.reader)
}
