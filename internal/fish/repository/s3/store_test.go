package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishtank/internal/fish/repository"
	"fishtank/internal/fish/repository/repotest"
)

func TestStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.FishRepository {
		store, _ := newMockStore("tank")
		return store
	})
}

func TestStore_KeyLayout(t *testing.T) {
	store, rt := newMockStore("/tank/")
	require.NoError(t, store.Create(context.Background(), "nemo", []byte(`{}`)))

	_, ok := rt.objects["tank/nemo/info"]
	assert.True(t, ok, "expected object tank/nemo/info, have %v", rt.objects)
	assert.Equal(t, "s3://mock-bucket/tank/nemo/info", store.Location("nemo"))
}

func TestStore_ListIgnoresForeignObjects(t *testing.T) {
	ctx := context.Background()
	store, rt := newMockStore("tank")
	require.NoError(t, store.Create(ctx, "nemo", []byte(`{"name":"nemo"}`)))

	rt.put("tank/readme.txt", []byte("hi"))
	rt.put("tank/dory/notes", []byte("x"))
	rt.put("tank/.hidden/info", []byte(`{}`))
	rt.put("other/bruce/info", []byte(`{}`))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nemo", entries[0].ID)
	assert.JSONEq(t, `{"name":"nemo"}`, string(entries[0].Data))
}

func TestStore_PingUnknownBucket(t *testing.T) {
	store, _ := newMockStore("")
	store.bucket = "missing"
	assert.Error(t, store.Ping(context.Background()))
}
