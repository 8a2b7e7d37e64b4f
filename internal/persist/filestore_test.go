package persist

import (
	"path/filepath"
	"testing"

	"driftboard/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	strokes := []board.Stroke{
		{ID: board.StrokeID{1, 2}, Color: board.DefaultColor, Size: 5, Points: []board.Point{{X: 1, Y: 2}}},
	}
	require.NoError(t, fs.Save("abc", strokes))

	got, err := fs.Load("abc")
	require.NoError(t, err)
	assert.Equal(t, strokes, got)

	_, err = fs.Load("missing")
	require.NoError(t, err, "a missing snapshot file is not an error")

	_, statErr := filepath.Glob(filepath.Join(dir, "abc.tmp"))
	assert.NoError(t, statErr)
}
