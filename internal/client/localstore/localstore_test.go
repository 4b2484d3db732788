package localstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/crmdesk/internal/client/localdb"
	"github.com/dmitrijs2005/crmdesk/internal/client/repositories/cache"
	"github.com/dmitrijs2005/crmdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

func newAdapter(t *testing.T) (*Adapter, *cache.SQLiteRepository) {
	t.Helper()
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := cache.NewSQLiteRepository(db)
	return New(repo, logging.Nop()), repo
}

// failingRepo fails every call.
type failingRepo struct{}

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingRepo) Set(context.Context, string, []byte) error   { return errors.New("disk gone") }
func (failingRepo) Delete(context.Context, string) error        { return errors.New("disk gone") }
func (failingRepo) List(context.Context) (map[string][]byte, error) {
	return nil, errors.New("disk gone")
}
func (failingRepo) Clear(context.Context) error { return errors.New("disk gone") }

func TestKey(t *testing.T) {
	assert.Equal(t, "contacts_u1", Key("contacts", "u1"))
	assert.Equal(t, "contacts_anon", Key("contacts", ""))
	assert.Equal(t, "contacts", LegacyKey("contacts"))
	assert.NotEqual(t, Key("contacts", "a"), Key("contacts", "b"))
}

func TestSaveThenLoad(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	in := []item{{ID: "1", Tags: []string{"vip"}}, {ID: "2", Tags: []string{}}}
	require.NoError(t, Save(ctx, a, "things_u1", in))

	out, ok := Load[item](ctx, a, "things_u1")
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestLoad_MissingKey(t *testing.T) {
	a, _ := newAdapter(t)

	out, ok := Load[item](context.Background(), a, "nothing_here")
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestLoad_CorruptJSONIsEmpty(t *testing.T) {
	a, repo := newAdapter(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "things_u1", []byte(`[{"id":`)))

	out, ok := Load[item](ctx, a, "things_u1")
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestLoad_StorageErrorIsEmpty(t *testing.T) {
	a := New(failingRepo{}, logging.Nop())

	out, ok := Load[item](context.Background(), a, "things_u1")
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestSave_NilStoredAsEmptyArray(t *testing.T) {
	a, repo := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, Save[item](ctx, a, "things_anon", nil))

	raw, err := repo.Get(ctx, "things_anon")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	out, ok := Load[item](ctx, a, "things_anon")
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestSave_StorageErrorReturned(t *testing.T) {
	a := New(failingRepo{}, logging.Nop())

	err := Save(context.Background(), a, "k", []item{{ID: "1"}})
	require.ErrorContains(t, err, "write k")
}

func TestValueRoundTripAndRemove(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	type session struct {
		Token string `json:"token"`
	}
	require.NoError(t, a.SaveValue(ctx, "session", session{Token: "abc"}))

	var got session
	require.True(t, LoadValue(ctx, a, "session", &got))
	assert.Equal(t, "abc", got.Token)

	require.NoError(t, a.Remove(ctx, "session"))
	assert.False(t, LoadValue(ctx, a, "session", &got))
}
