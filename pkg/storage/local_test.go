package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreUploadStatRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, zerolog.Nop())
	require.NoError(t, err)

	location, err := store.Upload(context.Background(), "transcript.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(location, "-transcript.pdf"))

	info, err := store.Stat(context.Background(), location)
	require.NoError(t, err)
	require.Equal(t, int64(len("%PDF-1.4 body")), info.Size())

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(location)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), location))
	_, err = store.Stat(context.Background(), location)
	require.True(t, errors.Is(err, fs.ErrNotExist))
	require.NoError(t, store.Remove(context.Background(), location))
}

func TestLocalStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocal(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Stat(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidLocation)

	// Leading traversal segments are clamped to the root.
	_, err = store.Stat(context.Background(), "../../etc/passwd")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}
