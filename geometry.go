package main

import (
	"image"
	"strconv"
	"strings"
)

// stringToPoint parses a size like "1300x1000". Both dimensions must
// be positive.
func stringToPoint(s string) (image.Point, bool) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return image.Point{}, false
	}
	x, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, false
	}
	y, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, false
	}
	if x <= 0 || y <= 0 {
		return image.Point{}, false
	}
	return image.Pt(x, y), true
}

// intCeil returns the ceiling of a/b
func intCeil(a, b int) int {
	n := a / b
	if a%b > 0 {
		n++
	}
	return n
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
