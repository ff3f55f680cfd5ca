package triage

import (
	"bytes"
	"image"
	"image/png"

	"github.com/nfnt/resize"
)

// maxImageWidth caps the screenshot sent to a vision model; full-size
// captures blow past provider payload limits for no diagnostic gain.
const maxImageWidth = 800

// downscalePNG re-encodes the screenshot no wider than maxImageWidth,
// preserving aspect ratio. Images already within the cap pass through
// re-encoded as PNG.
func downscalePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
