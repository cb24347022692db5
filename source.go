package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/xor-gate/goexif2/exif"
	"github.com/xor-gate/goexif2/tiff"
)

var (
	errZeroImage = errors.New("image has no pixels")
)

// Source is an image read once from the file system and decoded. It
// never changes after loading; rescaled frames for the window are
// derived from it by a Panel.
type Source struct {
	path   string
	format Format
	img    image.Image
	exif   string
}

// LoadSource reads and decodes the file at path. The hint selects the
// codec; FormatAny sniffs the contents. Any failure to produce a
// usable image, unreadable file, undecodable or empty contents, is
// returned as an error and no Source exists.
func LoadSource(path string, hint Format) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	img, format, err := decodeImage(data, hint)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("load %s: %w", path, errZeroImage)
	}

	return &Source{
		path:   path,
		format: format,
		img:    img,
		exif:   exifSummary(bytes.NewReader(data)),
	}, nil
}

// Size is the pixel size of the decoded image.
func (s *Source) Size() image.Point {
	return s.img.Bounds().Size()
}

// exifSummary extracts the shooting data usually wanted when viewing
// a photograph. The summary is empty for images without exif.
func exifSummary(r tiff.ReadAtReaderSeeker) string {
	ex, err := exif.Decode(r)
	if err != nil {
		return ""
	}

	asString := func(t *tiff.Tag) string {
		return strings.Trim(t.String(), `"`)
	}
	asRational := func(t *tiff.Tag) string {
		f, err := t.Rat(0)
		if err != nil {
			return ""
		}
		return f.FloatString(2)
	}

	fields := []struct {
		label  string
		name   exif.FieldName
		format func(*tiff.Tag) string
	}{
		{"", exif.DateTimeOriginal, asString},
		{"", exif.Model, asString},
		{"f/", exif.FNumber, asRational},
		{"t ", exif.ExposureTime, asString},
		{"ISO ", exif.ISOSpeedRatings, asString},
	}

	var sb strings.Builder
	for _, f := range fields {
		tag, err := ex.Get(f.name)
		if err != nil {
			continue
		}
		if v := f.format(tag); v != "" {
			fmt.Fprintf(&sb, "%s%s  ", f.label, v)
		}
	}
	return strings.TrimSpace(sb.String())
}
