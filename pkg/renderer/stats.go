package renderer

import "time"

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	TotalPixels    int           // Total number of pixels rendered
	HitPixels      int           // Pixels whose camera ray hit a sphere
	ShadowedPixels int           // Hit pixels occluded from the primary light (Phong mode)
	Tiles          int           // Number of tiles rendered
	Workers        int           // Number of workers used
	Duration       time.Duration // Wall time for the frame
}

// merge adds the per-tile counters of other into s
func (s *FrameStats) merge(other FrameStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.ShadowedPixels += other.ShadowedPixels
	s.Tiles += other.Tiles
}

// HitRatio returns the fraction of pixels that hit a sphere
func (s FrameStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
