package main

import (
	"errors"
	"fmt"
	"image"
	"log"

	draw9 "9fans.net/go/draw"
)

var errNotLoaded = errors.New("image not loaded")

// Slide is one image of the show. It loads and unloads as the user
// moves around, so a long list of files does not pin all its pixels
// in memory at once.
type Slide struct {
	path string
	hint Format

	src   *Source
	panel *Panel[*draw9.Image]
}

func NewSlide(path string, hint Format) *Slide {
	return &Slide{path: path, hint: hint}
}

// Load reads and decodes the image. Only decoding happens here; the
// display bitmap is made at paint time, when the window size is
// known.
func (s *Slide) Load() error {
	if s.panel != nil {
		return nil
	}
	src, err := LoadSource(s.path, s.hint)
	if err != nil {
		return err
	}
	s.src = src
	s.panel = NewPanel[*draw9.Image](src, panelScaler)
	return nil
}

// Unload frees the display bitmap and drops the decoded image. To
// use the slide again, call Load first.
func (s *Slide) Unload() {
	if s.panel == nil {
		return
	}
	s.panel.Free()
	s.panel = nil
	s.src = nil
}

// Render paints the slide on t.
func (s *Slide) Render(t Target[*draw9.Image]) error {
	if s.panel == nil {
		return fmt.Errorf("render %s: %w", s.path, errNotLoaded)
	}
	return s.panel.Render(t)
}

// PanelView shows one slide at a time, stretched to the window.
// Everything that changes what is on screen, keys, mouse, window
// reattach, only schedules a repaint; drawing happens in one place
// when the event loop picks the request up.
type PanelView struct {
	slides   []*Slide
	cache    *SlideCache[*Slide]
	at       int
	showInfo bool
	repaint  chan struct{}

	dctl *DisplayControl
}

func NewPanelView(slides []*Slide, at int) *PanelView {
	return &PanelView{
		slides:  slides,
		at:      at,
		repaint: make(chan struct{}, 1),
	}
}

func (v *PanelView) Connect(dctl *DisplayControl) {
	v.dctl = dctl
	v.resetCache()
}

func (v *PanelView) resetCache() {
	if v.cache != nil {
		v.cache.Free()
	}
	v.cache = NewSlideCache("slides", v.slides, *pageSize)
}

func (v *PanelView) Free() {
	v.cache.Free()
}

// Refresh asks for a repaint and returns at once. Requests coming in
// while one is already pending collapse into it.
func (v *PanelView) Refresh() {
	select {
	case v.repaint <- struct{}{}:
	default:
	}
}

// PaintNow paints immediately instead of waiting for the event loop.
func (v *PanelView) PaintNow() {
	v.paint()
}

func (v *PanelView) gotoSlide(i int) {
	if 0 <= i && i < len(v.slides) && i != v.at {
		v.at = i
		v.Refresh()
	}
}

func (v *PanelView) plumbSlide() {
	if 0 <= v.at && v.at < len(v.slides) {
		plumbImage(v.slides[v.at].path)
	}
}

// Handle runs the event loop until the user quits.
func (v *PanelView) Handle() {
	bt2menu := &draw9.Menu{
		Item: []string{"info", "plumb", "prev", "next", "exit"},
	}

	dctl := v.dctl
	v.PaintNow()
	for {
		select {
		case err := <-dctl.errch:
			log.Printf("display: %v", err)
		case k := <-dctl.kctl.C:
			switch k {
			case 'q', escKey:
				return
			case leftArrowKey:
				v.gotoSlide(v.at - 1)
			case rightArrowKey:
				v.gotoSlide(v.at + 1)
			case 'i':
				v.showInfo = !v.showInfo
				v.Refresh()
			case 'p':
				v.plumbSlide()
			}
		case dctl.mctl.Mouse = <-dctl.mctl.C:
			switch dctl.mctl.Mouse.Buttons {
			case 1:
				v.gotoSlide(v.at - 1)
			case 2:
				switch draw9.MenuHit(2, dctl.mctl, bt2menu, nil) {
				case 0:
					v.showInfo = !v.showInfo
					v.Refresh()
				case 1:
					v.plumbSlide()
				case 2:
					v.gotoSlide(v.at - 1)
				case 3:
					v.gotoSlide(v.at + 1)
				case 4:
					return
				}
			case 4:
				v.gotoSlide(v.at + 1)
			}
		case <-dctl.mctl.Resize:
			if err := dctl.display.Attach(draw9.RefNone); err != nil {
				log.Fatalf("display: failed to attach: %v", err)
			}
			v.Refresh()
		case <-v.repaint:
			v.paint()
		}
	}
}

// paint draws the current slide and, if asked for, the info lines on
// top of it. The slide keeps its own bitmap current for the window
// size, so reattaches and repeat paints cost only what they must.
func (v *PanelView) paint() {
	dctl := v.dctl
	window := dctl.display.Image
	window.Draw(window.Bounds(), dctl.bgColor, nil, image.Point{})
	defer func() {
		if err := dctl.display.Flush(); err != nil {
			log.Printf("display: flush: %v", err)
		}
	}()

	var slide *Slide
	var ok bool
	var err error
	dctl.showWaitingAndCall(func() {
		if slide, ok = v.cache.At(v.at); ok {
			err = slide.Render(displayTarget{dctl})
		}
	})
	if !ok {
		return
	}
	if err != nil {
		log.Printf("panelView: %v", err)
		return
	}

	if v.showInfo {
		font := dctl.display.Font
		pt := window.Bounds().Min
		window.String(pt, dctl.fontColor, image.Point{}, font,
			fmt.Sprintf("%d/%d %v %s", v.at+1, v.cache.Len(), slide.src.Size(), slide.path))
		if slide.src.exif != "" {
			pt = pt.Add(image.Point{0, font.Height})
			window.String(pt, dctl.fontColor, image.Point{}, font, slide.src.exif)
		}
	}
}
