package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
)

// DefaultFrameDelay is the GIF frame delay in 100ths of a second (25 fps)
const DefaultFrameDelay = 4

// Animation collects rendered frames into an animated GIF
type Animation struct {
	frames []*image.Paletted
	delays []int
	delay  int
}

// NewAnimation creates an empty animation. delay is in 100ths of a second;
// non-positive values use DefaultFrameDelay.
func NewAnimation(delay int) *Animation {
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	return &Animation{delay: delay}
}

// AddFrame quantizes a frame to the Plan9 palette and appends it
func (a *Animation) AddFrame(img image.Image) {
	bounds := img.Bounds()
	paletted := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, paletted.Bounds(), img, bounds.Min)

	a.frames = append(a.frames, paletted)
	a.delays = append(a.delays, a.delay)
}

// Len returns the number of frames collected so far
func (a *Animation) Len() int {
	return len(a.frames)
}

// Encode writes the looping animation
func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("animation has no frames")
	}
	out := &gif.GIF{
		Image:     a.frames,
		Delay:     a.delays,
		LoopCount: 0,
	}
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encoding GIF: %w", err)
	}
	return nil
}

// Save writes the animation to path, creating parent directories as needed
func (a *Animation) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	return a.Encode(file)
}
