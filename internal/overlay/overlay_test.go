package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func TestMarkPointDrawsRing(t *testing.T) {
	marked := MarkPoint(grayFrame(200, 200), 100, 100)

	rgba, ok := marked.(*image.RGBA)
	require.True(t, ok)

	// The ring band should be marker-colored; the center should not.
	assert.Equal(t, markColor, rgba.RGBAAt(100+markRadius-1, 100))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, rgba.RGBAAt(100, 100))
}

func TestMarkPointDoesNotMutateInput(t *testing.T) {
	original := grayFrame(100, 100)
	MarkPoint(original, 50, 50)

	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, original.RGBAAt(50+markRadius-1, 50))
}

func TestMarkPointClipsAtEdges(t *testing.T) {
	// Marker centered outside the image must not panic.
	assert.NotPanics(t, func() {
		MarkPoint(grayFrame(50, 50), -10, 5)
		MarkPoint(grayFrame(50, 50), 49, 49)
	})
}
