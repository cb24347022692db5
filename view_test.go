package main

import (
	"errors"
	"image"
	"testing"

	draw9 "9fans.net/go/draw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCoalesces(t *testing.T) {
	v := NewPanelView(nil, 0)

	v.Refresh()
	v.Refresh()
	v.Refresh()
	assert.Len(t, v.repaint, 1, "pending repaints should collapse into one")

	<-v.repaint
	assert.Empty(t, v.repaint)

	v.Refresh()
	assert.Len(t, v.repaint, 1)
}

func TestGotoSlide(t *testing.T) {
	slides := []*Slide{
		NewSlide("a.png", FormatAny),
		NewSlide("b.png", FormatAny),
		NewSlide("c.png", FormatAny),
	}
	v := NewPanelView(slides, 0)

	v.gotoSlide(-1)
	assert.Equal(t, 0, v.at)
	assert.Empty(t, v.repaint, "out of range moves should not repaint")

	v.gotoSlide(3)
	assert.Equal(t, 0, v.at)
	assert.Empty(t, v.repaint)

	v.gotoSlide(2)
	assert.Equal(t, 2, v.at)
	assert.Len(t, v.repaint, 1)

	<-v.repaint
	v.gotoSlide(2)
	assert.Empty(t, v.repaint, "staying in place should not repaint")
}

func TestSlideLoadUnload(t *testing.T) {
	s := NewSlide(writePNG(t, 8, 5), FormatPNG)
	require.NoError(t, s.Load())
	require.NotNil(t, s.panel)
	require.NotNil(t, s.src)
	assert.Equal(t, image.Pt(8, 5), s.src.Size())

	panel := s.panel
	require.NoError(t, s.Load())
	assert.Same(t, panel, s.panel, "loading twice should be a noop")

	s.Unload()
	assert.Nil(t, s.panel)
	assert.Nil(t, s.src)
	s.Unload()

	require.NoError(t, s.Load(), "an unloaded slide can load again")
	require.NotNil(t, s.panel)
}

func TestSlideLoadError(t *testing.T) {
	s := NewSlide("no/such/file.png", FormatAny)
	assert.Error(t, s.Load())
	assert.Nil(t, s.panel)

	err := s.Render(nil)
	assert.ErrorIs(t, err, errNotLoaded)
}

// errTarget is a display target whose uploads always fail.
type errTarget struct {
	r   image.Rectangle
	err error
}

func (t errTarget) Bounds() image.Rectangle { return t.r }

func (t errTarget) Convert(*image.RGBA) (*draw9.Image, error) {
	return nil, t.err
}

func (t errTarget) Draw(*draw9.Image) error { return nil }

func TestSlideRenderConvertFailure(t *testing.T) {
	errUpload := errors.New("no display")

	s := NewSlide(writePNG(t, 8, 5), FormatPNG)
	require.NoError(t, s.Load())

	err := s.Render(errTarget{r: image.Rect(0, 0, 10, 10), err: errUpload})
	assert.ErrorIs(t, err, errUpload)
	assert.Equal(t, unsetSize, s.panel.Size(), "no bitmap exists after a failed first conversion")
}
