package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishtank/internal/fish/repository/fs"
	"fishtank/internal/fish/repository/memory"
	"fishtank/internal/fish/repository/sqlstore"
	"fishtank/pkg/logger"
)

func TestCopy_FilesystemToSQLite(t *testing.T) {
	ctx := context.Background()
	src := fs.New(t.TempDir())
	for _, id := range []string{"nemo", "dory"} {
		require.NoError(t, src.Create(ctx, id, []byte(`{"name":"`+id+`"}`)))
	}

	dst, err := sqlstore.OpenSQLite(ctx, filepath.Join(t.TempDir(), "fish.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })

	res, err := Copy(ctx, src, dst, false, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, Result{Copied: 2}, res)

	data, err := dst.Get(ctx, "dory")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"dory"}`, string(data))
}

func TestCopy_ExistingRecords(t *testing.T) {
	ctx := context.Background()
	src, dst := memory.New(), memory.New()
	require.NoError(t, src.Create(ctx, "nemo", []byte(`{"v":2}`)))
	require.NoError(t, dst.Create(ctx, "nemo", []byte(`{"v":1}`)))

	res, err := Copy(ctx, src, dst, false, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	data, _ := dst.Get(ctx, "nemo")
	assert.JSONEq(t, `{"v":1}`, string(data))

	res, err = Copy(ctx, src, dst, true, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Overwritten)
	data, _ = dst.Get(ctx, "nemo")
	assert.JSONEq(t, `{"v":2}`, string(data))
}

func TestCopy_CountsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	src := fs.New(root)
	require.NoError(t, src.Create(ctx, "nemo", []byte(`{}`)))
	require.NoError(t, os.Mkdir(filepath.Join(root, "broken"), 0o711))
	require.NoError(t, os.Mkdir(filepath.Join(root, "broken", fs.DescriptorName), 0o711))

	res, err := Copy(ctx, src, memory.New(), false, logger.Discard())
	require.Error(t, err)
	assert.Equal(t, 1, res.Copied)
	assert.Equal(t, 1, res.Failed)
}

func TestCopy_MissingSource(t *testing.T) {
	_, err := Copy(context.Background(), fs.New(filepath.Join(t.TempDir(), "gone")), memory.New(), false, logger.Discard())
	require.Error(t, err)
}
