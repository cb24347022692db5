package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format identifies the codec used to decode an image file.
// FormatAny means the format is not declared and must be sniffed
// from the file contents.
type Format int

const (
	FormatAny Format = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatWebP
)

var (
	errNotSupportedFormat = errors.New("not supported format")
)

var formatNames = map[Format]string{
	FormatAny:  "any",
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatWebP: "webp",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name or a file extension, with or without
// the leading dot, to a Format. The empty string means FormatAny.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	switch s {
	case "":
		return FormatAny, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	}
	return FormatAny, fmt.Errorf("format %q: %w", s, errNotSupportedFormat)
}

// decode runs the codec the format names.
func (f Format) decode(r io.Reader) (image.Image, error) {
	switch f {
	case FormatPNG:
		return png.Decode(r)
	case FormatJPEG:
		return jpeg.Decode(r)
	case FormatGIF:
		return gif.Decode(r)
	case FormatBMP:
		return bmp.Decode(r)
	case FormatTIFF:
		return tiff.Decode(r)
	case FormatWebP:
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("format %v: %w", f, errNotSupportedFormat)
}

// sniffFormat maps the detected content type of data to a Format.
// Tiff is not in the http sniffing tables and needs a declared hint.
func sniffFormat(data []byte) (Format, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/png":
		return FormatPNG, nil
	case "image/jpeg":
		return FormatJPEG, nil
	case "image/gif":
		return FormatGIF, nil
	case "image/bmp":
		return FormatBMP, nil
	case "image/webp":
		return FormatWebP, nil
	default:
		return FormatAny, fmt.Errorf("cannot handle %s: %w", ct, errNotSupportedFormat)
	}
}

// decodeImage decodes data according to hint. With FormatAny the
// contents are sniffed first, so that a text file fails cleanly
// instead of reaching a codec. A concrete hint goes straight to its
// codec and fails if the data does not match.
func decodeImage(data []byte, hint Format) (image.Image, Format, error) {
	f := hint
	if f == FormatAny {
		var err error
		if f, err = sniffFormat(data); err != nil {
			return nil, FormatAny, err
		}
	}
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, fmt.Errorf("decode %v: %w", f, err)
	}
	return img, f, nil
}
