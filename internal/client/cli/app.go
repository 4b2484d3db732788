package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/crmdesk/internal/client/config"
	"github.com/dmitrijs2005/crmdesk/internal/client/stores"
	"github.com/dmitrijs2005/crmdesk/internal/client/workspace"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

type App struct {
	ws     *workspace.Workspace
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

// NewApp opens the workspace described by cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	ws, err := workspace.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return newApp(ws, bufio.NewReader(os.Stdin), os.Stdout, log), nil
}

func newApp(ws *workspace.Workspace, r *bufio.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{ws: ws, reader: r, out: out, log: log}
}

// Run starts the REPL and closes the workspace when the user leaves.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.ws.Close(); err != nil {
			a.log.Error(ctx, "workspace close failed", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.ws.Session.Identity()
	return ok
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints the outcome of a mutation in user terms.
func (a *App) report(what string, out stores.Outcome) {
	switch out.Kind {
	case stores.AppliedRemote:
		a.printf("%s: saved\n", what)
	case stores.AppliedLocal:
		a.printf("%s: saved locally\n", what)
	case stores.AppliedLocalFallback:
		a.printf("%s: saved locally, remote unavailable (%v)\n", what, out.Reason)
	default:
		a.printf("%s: not applied (%v)\n", what, out.Reason)
	}
}
