package main

import (
	"bytes"
	"fmt"
	"image"
	"log"

	draw9 "9fans.net/go/draw"
)

// DisplayControl bundles the devdraw connection with its event
// channels and the allocated colors.
type DisplayControl struct {
	display   *draw9.Display
	errch     chan error
	mctl      *draw9.Mousectl
	kctl      *draw9.Keyboardctl
	bgColor   *draw9.Image
	fontColor *draw9.Image
}

func connectToDisplay(dims image.Point) *DisplayControl {
	errch := make(chan error)
	disp, err := draw9.Init(errch, "", progName, fmt.Sprintf("%dx%d", dims.X, dims.Y))
	if err != nil {
		log.Fatalf("display: cannot connect: %v", err)
	}
	kctl := disp.InitKeyboard()
	mctl := disp.InitMouse()

	return &DisplayControl{
		display:   disp,
		errch:     errch,
		mctl:      mctl,
		kctl:      kctl,
		bgColor:   disp.AllocImageMix(darkgrey, darkgrey),
		fontColor: disp.AllocImageMix(darkgrey, yellow),
	}
}

// showWaitingAndCall changes the cursor to the waiting one and executes fn
func (dctl *DisplayControl) showWaitingAndCall(fn func()) {
	if err := dctl.display.SwitchCursor(waiting); err != nil {
		log.Printf("failed to switch cursor: %v", err)
	}
	fn()
	if err := dctl.display.SwitchCursor(nil); err != nil {
		log.Printf("failed to switch cursor: %v", err)
	}
}

func (dctl *DisplayControl) cls() {
	dctl.display.Image.Draw(dctl.display.Image.Bounds(), dctl.bgColor, nil, image.Point{})
	dctl.display.Flush()
}

// displayTarget adapts the devdraw window to the Target interface for
// one paint pass. The window image may be replaced on reattach, so a
// new value is made for every paint.
type displayTarget struct {
	dctl *DisplayControl
}

func (t displayTarget) Bounds() image.Rectangle {
	return t.dctl.display.Image.Bounds()
}

func (t displayTarget) Convert(frame *image.RGBA) (*draw9.Image, error) {
	return t.dctl.display.ReadImage(encodePlan9Bitmap(frame))
}

func (t displayTarget) Draw(bm *draw9.Image) error {
	win := t.dctl.display.Image
	r := bm.Bounds().Sub(bm.Bounds().Min).Add(win.Bounds().Min)
	win.Draw(r, bm, nil, bm.Bounds().Min)
	return nil
}

// encodePlan9Bitmap converts an image to the plan9 format for display.
// The packing of r8g8b8a8 is little-endian, hence the byte swap.
func encodePlan9Bitmap(img *image.RGBA) *bytes.Buffer {
	r := img.Bounds()
	b := bytes.NewBuffer(make([]byte, 0, 60+r.Dx()*r.Dy()*4))
	fmt.Fprintf(b, "%11s %11d %11d %11d %11d ",
		"r8g8b8a8", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for len(row) > 0 {
			b.WriteByte(row[3])
			b.WriteByte(row[2])
			b.WriteByte(row[1])
			b.WriteByte(row[0])
			row = row[4:]
		}
	}
	return b
}
