// Package repotest holds the behaviour every FishRepository backend must
// share. Backend packages call Run from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

// Factory returns an empty repository. Cleanup belongs to t.
type Factory func(t *testing.T) repository.FishRepository

func Run(t *testing.T, newRepo Factory) {
	t.Run("create then get", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, "nemo", []byte(`{"name":"nemo"}`)))

		data, err := repo.Get(ctx, "nemo")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"nemo"}`, string(data))
	})

	t.Run("create twice conflicts and keeps first", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, "dory", []byte(`{"v":1}`)))
		err := repo.Create(ctx, "dory", []byte(`{"v":2}`))
		require.ErrorIs(t, err, fisherrors.ErrAlreadyExists)

		data, err := repo.Get(ctx, "dory")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(data))
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := newRepo(t).Get(context.Background(), "ghost")
		require.ErrorIs(t, err, fisherrors.ErrNotFound)
	})

	t.Run("put replaces existing", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, "gill", []byte(`{"size":"small"}`)))
		require.NoError(t, repo.Put(ctx, "gill", []byte(`{"size":"large"}`)))

		data, err := repo.Get(ctx, "gill")
		require.NoError(t, err)
		assert.JSONEq(t, `{"size":"large"}`, string(data))
	})

	t.Run("put missing does not create", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		err := repo.Put(ctx, "bruce", []byte(`{}`))
		require.ErrorIs(t, err, fisherrors.ErrNotFound)

		_, err = repo.Get(ctx, "bruce")
		require.ErrorIs(t, err, fisherrors.ErrNotFound)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		require.NoError(t, repo.Create(ctx, "marlin", []byte(`{}`)))
		require.NoError(t, repo.Delete(ctx, "marlin"))

		_, err := repo.Get(ctx, "marlin")
		require.ErrorIs(t, err, fisherrors.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "marlin"), fisherrors.ErrNotFound)

		require.NoError(t, repo.Create(ctx, "marlin", []byte(`{"again":true}`)))
	})

	t.Run("list returns every record", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, repo.Create(ctx, id, []byte(fmt.Sprintf(`{"name":%q}`, id))))
		}

		entries, err := repo.List(ctx)
		require.NoError(t, err)

		got := make(map[string]string, len(entries))
		for _, e := range entries {
			require.NoError(t, e.Err)
			got[e.ID] = string(e.Data)
		}
		assert.Equal(t, map[string]string{
			"a": `{"name":"a"}`,
			"b": `{"name":"b"}`,
			"c": `{"name":"c"}`,
		}, got)
	})

	t.Run("list empty", func(t *testing.T) {
		entries, err := newRepo(t).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("invalid identifiers rejected", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		for _, id := range []string{"", "..", "a/b", "a.b"} {
			err := repo.Create(ctx, id, []byte(`{}`))
			assert.ErrorIs(t, err, fisherrors.ErrInvalidID, "id %q", id)
		}
	})

	t.Run("concurrent create has one winner", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		const creators = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			wins      int
			conflicts int
		)
		for i := 0; i < creators; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := repo.Create(ctx, "squirt", []byte(fmt.Sprintf(`{"writer":%d}`, i)))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, fisherrors.ErrAlreadyExists):
					conflicts++
				default:
					t.Errorf("unexpected create error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, creators-1, conflicts)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newRepo(t).Ping(context.Background()))
	})
}
