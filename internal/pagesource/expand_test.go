package pagesource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/domain"
)

func TestExpand_SingleImageIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o644))

	pages, err := NewExpander().Expand(context.Background(), path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{path}, pages)
}

func TestExpand_ImageExtensionsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.PNG", "b.Jpg", "c.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		pages, err := NewExpander().Expand(context.Background(), path, t.TempDir())
		require.NoError(t, err, name)
		assert.Equal(t, []string{path}, pages)
	}
}

func TestExpand_MissingFile(t *testing.T) {
	_, err := NewExpander().Expand(context.Background(), "/nope/gone.png", t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestExpand_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewExpander().Expand(context.Background(), path, t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFileType))
}

func TestExpand_DirectoryRejected(t *testing.T) {
	_, err := NewExpander().Expand(context.Background(), t.TempDir(), t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFileType))
}

func TestExpand_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExpander().Expand(ctx, "whatever.png", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageNumberPattern(t *testing.T) {
	tests := []struct {
		name string
		page int
	}{
		{"doc_1_Im0.png", 1},
		{"doc_12_Im3.jpg", 12},
		{"contract_3_image.tiff", 3},
		{"scan_7.png", 7},
	}
	for _, tt := range tests {
		m := pageNumRe.FindStringSubmatch(tt.name)
		require.NotNil(t, m, tt.name)
		assert.Equal(t, tt.page, atoiMust(m[1]), tt.name)
	}
}

func atoiMust(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
