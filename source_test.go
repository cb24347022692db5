package main

import (
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, testSource(w, h).img))
	return path
}

func TestLoadSourcePNG(t *testing.T) {
	src, err := LoadSource(writePNG(t, 8, 5), FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 5), src.Size())
	assert.Equal(t, FormatPNG, src.format)
	assert.Empty(t, src.exif)
}

func TestLoadSourceSniffs(t *testing.T) {
	src, err := LoadSource(writePNG(t, 8, 5), FormatAny)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, src.format)

	path := filepath.Join(t.TempDir(), "photo")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, testSource(6, 6).img, nil))
	require.NoError(t, f.Close())

	src, err = LoadSource(path, FormatAny)
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, src.format)
}

func TestLoadSourceMissingFile(t *testing.T) {
	_, err := LoadSource(filepath.Join(t.TempDir(), "nope.png"), FormatAny)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadSourceHintMismatch(t *testing.T) {
	_, err := LoadSource(writePNG(t, 8, 5), FormatJPEG)
	assert.Error(t, err)
}

func TestLoadSourceNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))

	_, err := LoadSource(path, FormatAny)
	assert.ErrorIs(t, err, errNotSupportedFormat)
}

// Tiff is missing from the content sniffing tables, so it works only
// with a declared hint.
func TestLoadSourceTiffNeedsHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.tiff")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, testSource(8, 5).img, nil))
	require.NoError(t, f.Close())

	_, err = LoadSource(path, FormatAny)
	assert.ErrorIs(t, err, errNotSupportedFormat)

	src, err := LoadSource(path, FormatTIFF)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 5), src.Size())
	assert.Equal(t, FormatTIFF, src.format)
}
