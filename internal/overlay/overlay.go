// Package overlay stamps diagnostic markers onto screenshot artifacts.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

const (
	markRadius    = 22
	markThickness = 4
	tickLength    = 10
)

var markColor = color.RGBA{R: 220, G: 50, B: 47, A: 255}

// MarkPoint returns a copy of img with a ring marker centered on (x, y),
// pointing a reviewer at the element the failed step targeted. The input
// image is never modified.
func MarkPoint(img image.Image, x, y int) image.Image {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	drawRing(result, x, y)
	drawTicks(result, x, y)

	return result
}

func drawRing(img *image.RGBA, cx, cy int) {
	outer := float64(markRadius)
	inner := float64(markRadius - markThickness)

	for dy := -markRadius; dy <= markRadius; dy++ {
		for dx := -markRadius; dx <= markRadius; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if d <= outer && d >= inner {
				setIfInBounds(img, cx+dx, cy+dy)
			}
		}
	}
}

// drawTicks extends short crosshair lines outward from the ring so the
// marker stays findable on busy screenshots.
func drawTicks(img *image.RGBA, cx, cy int) {
	for i := markRadius; i <= markRadius+tickLength; i++ {
		for t := -1; t <= 1; t++ {
			setIfInBounds(img, cx+i, cy+t)
			setIfInBounds(img, cx-i, cy+t)
			setIfInBounds(img, cx+t, cy+i)
			setIfInBounds(img, cx+t, cy-i)
		}
	}
}

func setIfInBounds(img *image.RGBA, x, y int) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, markColor)
	}
}
