package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	_, err := m.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Write(ctx, []byte(`{"a":1}`)))
	data, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
	assert.Equal(t, 1, m.Writes())
}

func TestFile_ReadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))

	_, err := f.Read(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFile_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "persistence.json")
	f := NewFile(path)

	require.NoError(t, f.Write(ctx, []byte(`{"alice":3,"bob":1}`)))
	require.NoError(t, f.Write(ctx, []byte(`{}`)))

	data, err := f.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, path, f.Location())
}

func TestFile_WriteIntoMissingDirectory(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nope", "persistence.json"))

	err := f.Write(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisOptions{Address: mr.Addr()})
	defer client.Close()

	r := NewRedis(client, "slashbot:coffee")

	_, err := r.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Write(ctx, []byte(`{"alice":2}`)))

	data, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"alice":2}`, string(data))

	stored, err := mr.Get("slashbot:coffee")
	require.NoError(t, err)
	assert.Equal(t, `{"alice":2}`, stored)
	assert.Equal(t, "redis:slashbot:coffee", r.Location())
}

func TestRedis_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisOptions{Address: mr.Addr()})
	defer client.Close()
	r := NewRedis(client, "k")

	mr.Close()

	err := r.Write(context.Background(), []byte(`{}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
