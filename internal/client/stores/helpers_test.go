package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/crmdesk/internal/client/auth"
	"github.com/dmitrijs2005/crmdesk/internal/client/localdb"
	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/client/models"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote"
	"github.com/dmitrijs2005/crmdesk/internal/client/remote/memory"
	"github.com/dmitrijs2005/crmdesk/internal/client/repositories/cache"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
)

var (
	t0    = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	alice = auth.Identity{ID: "u-alice", Email: "alice@x.com"}
	bob   = auth.Identity{ID: "u-bob", Email: "bob@x.com"}
	anon  = auth.Identity{}
)

// fakeAuth only answers RemoteEnabled; stores receive the identity through
// Activate.
type fakeAuth struct{ remote bool }

func (fakeAuth) Identity() (auth.Identity, bool) { return auth.Identity{}, false }
func (f fakeAuth) RemoteEnabled() bool           { return f.remote }

func newRepo(t *testing.T) cache.Repository {
	t.Helper()
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return cache.NewSQLiteRepository(db)
}

func newCache(t *testing.T) *localstore.Adapter {
	t.Helper()
	return localstore.New(newRepo(t), logging.Nop())
}

// clock returns increasing timestamps one second apart.
func clock() func() time.Time {
	now := t0
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func localDeps(t *testing.T) Deps {
	t.Helper()
	return Deps{Auth: fakeAuth{}, Cache: newCache(t), Now: clock()}
}

func remoteDeps(t *testing.T, b remote.Backend) Deps {
	t.Helper()
	return Deps{Remote: b, Auth: fakeAuth{remote: true}, Cache: newCache(t), Now: clock()}
}

func noPause() BulkOptions { return BulkOptions{ChunkSize: DefaultChunkSize} }

func ada() models.Contact {
	return models.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}
}

// seedRemote puts contacts straight into the remote table of userID.
func seedRemote(t *testing.T, b *memory.Backend, userID string, names ...string) {
	t.Helper()
	rows := make([]models.ContactRow, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.ContactRow{Name: n})
	}
	_, err := b.Contacts(userID).BulkCreate(context.Background(), rows)
	require.NoError(t, err)
}

// hookBackend runs onCreate inside every remote contact Create, before the
// row is stored.
type hookBackend struct {
	*memory.Backend
	onCreate func()
}

func (h *hookBackend) Contacts(userID string) remote.Table[models.ContactRow] {
	return hookTable{Table: h.Backend.Contacts(userID), onCreate: h.onCreate}
}

type hookTable struct {
	remote.Table[models.ContactRow]
	onCreate func()
}

func (h hookTable) Create(ctx context.Context, row models.ContactRow) (models.ContactRow, error) {
	if h.onCreate != nil {
		h.onCreate()
	}
	return h.Table.Create(ctx, row)
}
