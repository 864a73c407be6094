package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Config contains frame renderer configuration
type Config struct {
	Width      int // Image width in pixels
	Height     int // Image height in pixels
	TileSize   int // Size of each square tile
	NumWorkers int // Number of parallel workers (0 = use CPU count, 1 = render on the calling goroutine)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:      600,
		Height:     600,
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Renderer turns a scene into a fully overwritten RGBA frame. A Renderer
// renders one frame at a time; callers sharing one must serialize calls.
type Renderer struct {
	config Config
	tiles  []*Tile
	local  *TileRenderer // Used for sequential rendering and inspection
}

// NewRenderer creates a new frame renderer
func NewRenderer(config Config) *Renderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	return &Renderer{
		config: config,
		tiles:  NewTileGrid(config.Width, config.Height, config.TileSize),
		local:  NewTileRenderer(),
	}
}

// Config returns the renderer configuration
func (r *Renderer) Config() Config {
	return r.config
}

// newFrame validates the inputs and captures the per-frame state
func (r *Renderer) newFrame(s *scene.Scene, opts Options, img *image.RGBA) (*frame, error) {
	if s == nil {
		return nil, fmt.Errorf("scene is nil")
	}
	if r.config.Width <= 0 || r.config.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", r.config.Width, r.config.Height)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(s.Lights) == 0 {
		return nil, fmt.Errorf("scene has no lights")
	}

	active := s.Lights[:1]
	if opts.MultiLight {
		active = s.Lights
	}

	return &frame{
		scene:  s,
		opts:   opts,
		lights: append([]lights.Directional(nil), active...),
		width:  r.config.Width,
		height: r.config.Height,
		img:    img,
	}, nil
}

// RenderFrame renders every pixel of the scene. The result depends only on
// the scene state and options, never on the number of workers.
func (r *Renderer) RenderFrame(s *scene.Scene, opts Options) (*image.RGBA, FrameStats, error) {
	startTime := time.Now()

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	f, err := r.newFrame(s, opts, img)
	if err != nil {
		return nil, FrameStats{}, err
	}

	numWorkers := r.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = max(1, min(numWorkers, len(r.tiles)))

	stats := FrameStats{Workers: numWorkers}
	if numWorkers == 1 {
		for _, tile := range r.tiles {
			stats.merge(r.local.RenderTileBounds(f, tile.Bounds))
		}
	} else {
		tileStats, err := r.renderParallel(f, numWorkers)
		if err != nil {
			return nil, FrameStats{}, err
		}
		stats.merge(tileStats)
	}

	stats.Duration = time.Since(startTime)
	return img, stats, nil
}

// renderParallel distributes the tiles over a worker pool
func (r *Renderer) renderParallel(f *frame, numWorkers int) (FrameStats, error) {
	pool := NewWorkerPool(numWorkers, len(r.tiles))
	pool.Start()
	defer pool.Stop()

	for taskID, tile := range r.tiles {
		pool.SubmitTask(TileTask{
			Tile:   tile,
			TaskID: taskID,
			Frame:  f,
		})
	}

	var stats FrameStats
	for i := 0; i < len(r.tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return FrameStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.merge(result.Stats)
	}
	return stats, nil
}

// Inspect computes a single pixel (image coordinates, row 0 at the top)
// and reports how it was shaded
func (r *Renderer) Inspect(s *scene.Scene, opts Options, x, y int) (PixelInfo, error) {
	if x < 0 || x >= r.config.Width || y < 0 || y >= r.config.Height {
		return PixelInfo{}, fmt.Errorf("pixel (%d, %d) outside %dx%d frame", x, y, r.config.Width, r.config.Height)
	}

	f, err := r.newFrame(s, opts, nil)
	if err != nil {
		return PixelInfo{}, err
	}

	r.local.prepare(f)
	info := r.local.tracePixel(f, x, y)
	info.Occluded = append([]bool(nil), info.Occluded...)
	return info, nil
}

// RenderFrame renders a scene at the given size on the calling goroutine
func RenderFrame(s *scene.Scene, opts Options, width, height int) (*image.RGBA, error) {
	r := NewRenderer(Config{Width: width, Height: height, NumWorkers: 1})
	img, _, err := r.RenderFrame(s, opts)
	return img, err
}
