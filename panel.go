package main

import (
	"fmt"
	"image"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
)

// unsetSize marks a panel that has not produced a bitmap yet. Any
// real rescale target differs from it, so the first paint always
// resamples.
var unsetSize = image.Pt(-1, -1)

// panelScaler resamples sources for display. -f trades quality for
// speed.
var panelScaler xdraw.Scaler = xdraw.CatmullRom

// Bitmap is a device image a Target can draw. For devdraw it is a
// *draw9.Image living on the display server.
type Bitmap interface {
	Bounds() image.Rectangle
	Free() error
}

// Target is the drawing surface of one paint pass. Bounds reports the
// current surface geometry, Convert uploads a rescaled frame as a
// device bitmap and Draw shows a bitmap at the surface origin.
type Target[B Bitmap] interface {
	Bounds() image.Rectangle
	Convert(*image.RGBA) (B, error)
	Draw(B) error
}

// Panel displays one source image on a resizable surface. It keeps
// the bitmap of the last rescale together with the surface size it
// was made for, and resamples only when the surface size changes.
// Repainting at an unchanged size reuses the cached bitmap untouched.
type Panel[B Bitmap] struct {
	src    *Source
	scaler xdraw.Scaler

	bitmap   B
	size     image.Point
	rescales int
}

// NewPanel returns a panel for src. No bitmap exists until the first
// Render against a target with usable geometry.
func NewPanel[B Bitmap](src *Source, scaler xdraw.Scaler) *Panel[B] {
	return &Panel[B]{
		src:    src,
		scaler: scaler,
		size:   unsetSize,
	}
}

// Render brings t up to date with the source. A target without area
// is left alone: nothing is drawn and the cached bitmap survives for
// when the surface becomes visible again. When the target size
// matches the cached bitmap the bitmap is drawn as is. Otherwise the
// source is resampled to the new size and converted for the target;
// if the conversion fails the previous bitmap stays cached and is
// drawn in place of the new one.
func (p *Panel[B]) Render(t Target[B]) error {
	r := t.Bounds()
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil
	}

	size := r.Size()
	if size != p.size {
		bm, err := p.rescale(t, size)
		if err != nil {
			if p.size == unsetSize {
				return err
			}
			if derr := t.Draw(p.bitmap); derr != nil {
				return fmt.Errorf("draw stale bitmap: %w", derr)
			}
			return err
		}
		if p.size != unsetSize {
			if err := p.bitmap.Free(); err != nil {
				log.Printf("panel %s: free bitmap: %v", p.src.path, err)
			}
		}
		p.bitmap = bm
		p.size = size
	}
	return t.Draw(p.bitmap)
}

func (p *Panel[B]) rescale(t Target[B], size image.Point) (B, error) {
	start := time.Now()
	frame := image.NewRGBA(image.Rectangle{Max: size})
	p.scaler.Scale(frame, frame.Bounds(), p.src.img, p.src.img.Bounds(), xdraw.Src, nil)
	p.rescales++

	bm, err := t.Convert(frame)
	if err != nil {
		var zero B
		return zero, fmt.Errorf("convert %s to %v: %w", p.src.path, size, err)
	}
	if *verbose {
		log.Printf("panel %s: rescaled to %v time %v", p.src.path, size, time.Since(start))
	}
	return bm, nil
}

// Rescales counts how many times the source was resampled.
func (p *Panel[B]) Rescales() int {
	return p.rescales
}

// Size is the surface size of the cached bitmap, unsetSize when no
// bitmap exists.
func (p *Panel[B]) Size() image.Point {
	return p.size
}

// Free releases the cached bitmap. The panel stays usable and will
// resample on the next Render.
func (p *Panel[B]) Free() {
	if p.size == unsetSize {
		return
	}
	if *verbose {
		log.Printf("panel %s: %d rescales", p.src.path, p.rescales)
	}
	if err := p.bitmap.Free(); err != nil {
		log.Printf("panel %s: free bitmap: %v", p.src.path, err)
	}
	var zero B
	p.bitmap = zero
	p.size = unsetSize
}
