package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/crmdesk/internal/client/auth"
	"github.com/dmitrijs2005/crmdesk/internal/client/config"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/client/stores"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "crmdesk.db")
	cfg.RemoteDriver = driver
	cfg.RemoteSyncEnabled = driver != config.DriverNone
	cfg.ImportChunkPause = 0
	return cfg
}

func open(t *testing.T, cfg *config.Config) *Workspace {
	t.Helper()
	w, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	return w
}

func devToken(t *testing.T, cfg *config.Config, userID string) string {
	t.Helper()
	tok, err := auth.IssueToken(userID, userID+"@x.com", []byte(cfg.JWTSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestOpen_LocalOnly(t *testing.T) {
	cfg := testConfig(t, config.DriverNone)
	w := open(t, cfg)
	defer w.Close()

	assert.False(t, w.RemoteEnabled())
	assert.Equal(t, stores.Ready, w.Contacts.State())
	assert.Equal(t, stores.Ready, w.Appointments.State())
	assert.Equal(t, 1, w.Calendars.Len(), "default calendar")
	assert.NotEmpty(t, w.Fields.Get())
}

func TestSignInReactivatesStores(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverMemory)
	w := open(t, cfg)
	defer w.Close()
	require.True(t, w.RemoteEnabled())

	_, out, err := w.Contacts.Create(ctx, models.Contact{Name: "Anonymous Ann"})
	require.NoError(t, err)
	assert.Equal(t, stores.AppliedLocal, out.Kind)

	id, err := w.Session.SignIn(ctx, devToken(t, cfg, "u1"))
	require.NoError(t, err)
	assert.Equal(t, id, w.Contacts.Identity())
	assert.Zero(t, w.Contacts.Len(), "anonymous data stays anonymous")

	_, out, err = w.Contacts.Create(ctx, models.Contact{Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, stores.AppliedRemote, out.Kind)

	require.NoError(t, w.Session.SignOut(ctx))
	assert.Equal(t, auth.Identity{}, w.Calendars.Identity())
	assert.Equal(t, 1, w.Contacts.Len())
	assert.Equal(t, "Anonymous Ann", w.Contacts.Items()[0].Name)
}

func TestOpen_RestoresSession(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverNone)

	w := open(t, cfg)
	_, err := w.Session.SignIn(ctx, devToken(t, cfg, "u1"))
	require.NoError(t, err)
	_, _, err = w.Contacts.Create(ctx, models.Contact{Name: "Ada Lovelace"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w = open(t, cfg)
	defer w.Close()
	assert.Equal(t, "u1", w.Contacts.Identity().ID)
	assert.Equal(t, 1, w.Contacts.Len())
}

func TestOpen_RemoteFailureRunsLocalOnly(t *testing.T) {
	orig := openRemote
	openRemote = func(context.Context, *config.Config) (remote.Backend, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { openRemote = orig })

	w := open(t, testConfig(t, config.DriverPostgres))
	defer w.Close()
	assert.False(t, w.RemoteEnabled())
	assert.Equal(t, stores.Ready, w.Contacts.State())
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverMemory)
	w := open(t, cfg)
	defer w.Close()

	_, err := w.Session.SignIn(ctx, devToken(t, cfg, "u1"))
	require.NoError(t, err)
	require.NoError(t, w.Sync(ctx))
	assert.True(t, w.Contacts.Synced())
	assert.Equal(t, stores.Ready, w.Contacts.State())
}

func TestClose(t *testing.T) {
	w := open(t, testConfig(t, config.DriverMemory))
	require.NoError(t, w.Close())
	assert.Equal(t, stores.Uninitialized, w.Contacts.State())
}
