package output

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestOpenWriteReadBack(t *testing.T) {
	ctx := context.Background()
	store := New(afs.New(), "mem://localhost/uuidrange")

	URL, writer, err := store.Open(ctx, "3f2b1a90-aaaa-bbbb-cccc-ddddeeeeffff")
	require.NoError(t, err)
	assert.Contains(t, URL, "uuid_range_")
	assert.Contains(t, URL, "3f2b1a90")
	assert.True(t, strings.HasSuffix(URL, ".txt"))

	_, err = writer.Write([]byte("0867d7ee-f8d5-11ef-8a38-aedb2c11800f\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	exists, err := store.Exists(ctx, URL)
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := store.OpenReader(ctx, URL)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "0867d7ee-f8d5-11ef-8a38-aedb2c11800f\n", string(data))
}

func TestOpenCreatesBaseLocation(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	store := New(fs, "mem://localhost/uuidrange-fresh")

	_, writer, err := store.Open(ctx, "task-1")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	exists, err := fs.Exists(ctx, store.BaseURL())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	store := New(afs.New(), "mem://localhost/uuidrange-discard")

	URL, writer, err := store.Open(ctx, "task-1")
	require.NoError(t, err)
	_, err = writer.Write([]byte("partial\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	require.NoError(t, store.Discard(ctx, URL))
	exists, err := store.Exists(ctx, URL)
	require.NoError(t, err)
	assert.False(t, exists)

	// Tolerates sinks that never materialized.
	assert.NoError(t, store.Discard(ctx, URL))
	assert.NoError(t, store.Discard(ctx, ""))
}

func TestNewDefaults(t *testing.T) {
	store := New(nil, "/tmp/uuidrange")
	assert.True(t, strings.HasPrefix(store.BaseURL(), "file:"))
	assert.True(t, strings.HasSuffix(store.BaseURL(), "/tmp/uuidrange"))
}
