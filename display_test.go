package main

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePlan9Bitmap(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	img.Set(1, 0, color.RGBA{R: 5, G: 6, B: 7, A: 8})

	b := encodePlan9Bitmap(img).Bytes()
	require.Len(t, b, 60+2*4)

	wantHeader := fmt.Sprintf("%11s %11d %11d %11d %11d ", "r8g8b8a8", 0, 0, 2, 1)
	assert.Equal(t, wantHeader, string(b[:60]))
	assert.Equal(t, []byte{4, 3, 2, 1, 8, 7, 6, 5}, b[60:], "pixels should be packed little-endian")
}

func TestEncodePlan9BitmapSubImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			base.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(16*x + y), A: 0xFF})
		}
	}
	sub := base.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	b := encodePlan9Bitmap(sub).Bytes()
	require.Len(t, b, 60+4*4)

	wantHeader := fmt.Sprintf("%11s %11d %11d %11d %11d ", "r8g8b8a8", 1, 1, 3, 3)
	assert.Equal(t, wantHeader, string(b[:60]))
	assert.Equal(t, []byte{0xFF, 17, 1, 1}, b[60:64], "rows must honor the stride of the parent image")
}
