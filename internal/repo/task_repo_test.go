package repo

import (
	"context"
	"errors"
	"testing"

	dom "github.com/cyberpompier/lumina/internal/domain"
	"github.com/cyberpompier/lumina/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

type failingKV struct {
	getErr, setErr error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingKV) Set(context.Context, string, string) error          { return f.setErr }
func (f failingKV) Close() error                                       { return nil }

func newRepo(kv storage.KV) *KVTaskRepo {
	return NewKVTaskRepo(kv, DefaultKey, DefaultLegacyKeys, nil)
}

func TestLoadMissingIsEmpty(t *testing.T) {
	c, err := newRepo(storage.NewMemory()).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newRepo(storage.NewMemory())
	want := dom.Collection{
		{ID: "b", Title: "Walk dog", CreatedAt: 1700000000002},
		{ID: "a", Title: "Buy milk", Completed: true, CreatedAt: 1700000000001},
	}
	require.NoError(t, r.Save(ctx, want))
	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveUsesWireFieldNames(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, newRepo(kv).Save(ctx, dom.Collection{{ID: "x", Title: "t", Completed: true, CreatedAt: 5}}))
	raw, ok, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"x","title":"t","completed":true,"createdAt":5}]`, raw)
}

func TestSaveNilWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, newRepo(kv).Save(ctx, nil))
	raw, _, _ := kv.Get(ctx, DefaultKey)
	assert.Equal(t, "[]", raw)
}

func TestSaveWithoutMutationKeepsStorageContent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	r := newRepo(kv)
	require.NoError(t, r.Save(ctx, dom.Collection{{ID: "a", Title: "x", CreatedAt: 1}}))
	before, _, _ := kv.Get(ctx, DefaultKey)

	c, err := r.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Save(ctx, c))
	after, _, _ := kv.Get(ctx, DefaultKey)
	assert.Equal(t, before, after)
}

func TestLoadDiscardsMalformedData(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":     "{not json",
		"object":      `{"id":"a"}`,
		"wrong types": `[{"id":1,"title":true}]`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, DefaultKey, raw))
			c, err := newRepo(kv).Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, c)
		})
	}
}

func TestLoadNullIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, DefaultKey, "null"))
	c, err := newRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[{"id":"a","title":"one"},{"id":"a","title":"two"}]`))
	c, err := newRepo(kv).Load(ctx)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "one", c[0].Title)
}

func TestLoadMigratesLegacyKey(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	legacy := `[{"id":"a","title":"Old","completed":false,"createdAt":10}]`
	require.NoError(t, kv.Set(ctx, "lumina_tasks", legacy))
	require.NoError(t, kv.Set(ctx, "lumina_tasks_v2", "corrupt"))

	c, err := newRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, dom.Collection{{ID: "a", Title: "Old", CreatedAt: 10}}, c)

	raw, ok, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "canonical key written after migration")
	assert.JSONEq(t, legacy, raw)

	still, _, _ := kv.Get(ctx, "lumina_tasks")
	assert.Equal(t, legacy, still, "legacy entry left untouched")
}

func TestLoadEmptyCanonicalEntryMigrates(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	legacy := `[{"id":"a","title":"Old","completed":true,"createdAt":10}]`
	require.NoError(t, kv.Set(ctx, DefaultKey, ""))
	require.NoError(t, kv.Set(ctx, "lumina_tasks_v2", ""))
	require.NoError(t, kv.Set(ctx, "lumina_tasks", legacy))

	c, err := newRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, dom.Collection{{ID: "a", Title: "Old", Completed: true, CreatedAt: 10}}, c)

	raw, _, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, legacy, raw)
}

func TestLoadPrefersCanonicalOverLegacy(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, DefaultKey, `[]`))
	require.NoError(t, kv.Set(ctx, "lumina_tasks_v2", `[{"id":"a","title":"Old"}]`))
	c, err := newRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestBackendErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	_, err := newRepo(failingKV{getErr: errBackend}).Load(ctx)
	assert.ErrorIs(t, err, errBackend)

	err = newRepo(failingKV{setErr: errBackend}).Save(ctx, dom.Collection{})
	assert.ErrorIs(t, err, errBackend)
}

func TestEmptyKeyFallsBackToDefault(t *testing.T) {
	r := NewKVTaskRepo(storage.NewMemory(), "", nil, nil)
	assert.Equal(t, DefaultKey, r.Key())
}
