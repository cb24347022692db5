package main

import (
	"image"

	draw9 "9fans.net/go/draw"
)

// waiting is an hourglass shown while a slow load or rescale runs.
var waiting = &draw9.Cursor{
	Point: image.Pt(-7, -7),
	White: [32]uint8{
		0xFF, 0xFF,
		0xFF, 0xFF,
		0x7F, 0xFE,
		0x3F, 0xFC,
		0x1F, 0xF8,
		0x0F, 0xF0,
		0x07, 0xE0,
		0x03, 0xC0,
		0x03, 0xC0,
		0x07, 0xE0,
		0x0F, 0xF0,
		0x1F, 0xF8,
		0x3F, 0xFC,
		0x7F, 0xFE,
		0xFF, 0xFF,
		0xFF, 0xFF,
	},
	Black: [32]uint8{
		0xFF, 0xFF,
		0xFF, 0xFF,
		0x40, 0x02,
		0x20, 0x04,
		0x10, 0x08,
		0x08, 0x10,
		0x04, 0x20,
		0x02, 0x40,
		0x02, 0x40,
		0x04, 0x20,
		0x08, 0x10,
		0x10, 0x08,
		0x20, 0x04,
		0x40, 0x02,
		0xFF, 0xFF,
		0xFF, 0xFF,
	},
}
