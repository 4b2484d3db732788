package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/crmdesk/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login reads an access token without echo and signs in with it. The
// stores switch to the new identity before Login returns.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Paste access token", a.out)
	if err != nil {
		return err
	}
	id, err := a.ws.Session.SignIn(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			a.printf("Token expired, request a new one\n")
		default:
			a.printf("Login unsuccessful: %v\n", err)
		}
		return err
	}
	a.printf("Signed in as %s\n", id.Email)
	if !a.ws.RemoteEnabled() {
		a.printf("Remote sync is off, data stays on this device\n")
	}
	return nil
}

// Logout returns to the anonymous workspace.
func (a *App) Logout(ctx context.Context) error {
	if err := a.ws.Session.SignOut(ctx); err != nil {
		a.printf("Not signed in\n")
		return err
	}
	a.printf("Signed out\n")
	return nil
}

// WhoAmI prints the active identity and sync mode.
func (a *App) WhoAmI(ctx context.Context) error {
	id, ok := a.ws.Session.Identity()
	if !ok {
		a.printf("anonymous (local only)\n")
		return nil
	}
	mode := "local only"
	if a.ws.RemoteEnabled() {
		mode = "remote sync"
	}
	a.printf("%s <%s> (%s)\n", id.ID, id.Email, mode)
	return nil
}

// Sync pushes pending local data to an empty remote and reloads everything.
func (a *App) Sync(ctx context.Context) error {
	if err := a.ws.Sync(ctx); err != nil {
		a.printf("Sync finished with errors: %v\n", err)
		return err
	}
	a.printf("Synced: %d contacts, %d calendars, %d appointments\n",
		a.ws.Contacts.Len(), a.ws.Calendars.Len(), a.ws.Appointments.Len())
	return nil
}
