package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// captionMargin is the inset of the caption from the frame's top-left corner
const captionMargin = 6.0

// Caption returns a copy of the frame with text drawn in its top-left
// corner. The source frame is left untouched. An empty caption still copies.
func Caption(img image.Image, text string) image.Image {
	return captionContext(img, text).Image()
}

// WritePNG encodes the frame as PNG, captioned if caption is non-empty
func WritePNG(w io.Writer, img image.Image, caption string) error {
	if err := captionContext(img, caption).EncodePNG(w); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// captionContext copies the frame into a drawing context once and draws
// the caption band on it unless text is empty
func captionContext(img image.Image, text string) *gg.Context {
	dc := gg.NewContextForImage(img)
	if text == "" {
		return dc
	}

	// Dark band behind the text keeps it readable over bright spheres
	_, textHeight := dc.MeasureString(text)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, float64(dc.Width()), textHeight+2*captionMargin)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, captionMargin, captionMargin, 0, 1)
	return dc
}

// SavePNG writes the frame to path, creating parent directories as needed
func SavePNG(path string, img image.Image, caption string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	return WritePNG(file, img, caption)
}
