package session

import (
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Camera limits for the zoom keys
const (
	CameraStep = 0.5
	MinCameraZ = -10.0 // "+" stops once the camera reaches this depth
	MaxCameraZ = -5.0  // "-" stops once the camera is back here
)

// Config contains the initial state of an interactive session
type Config struct {
	Scene        string  // Built-in scene ID or path to a scenes/*.pbrt file
	Seed         int64   // Random seed for randomized scenes (0 = time based)
	CameraZ      float64 // Initial camera position on the z axis
	AngleStep    float64 // Orbit advance per tick, in radians
	Options      renderer.Options
	RenderConfig renderer.Config
}

// DefaultConfig returns the interactive defaults: the random orbit scene seen
// from (0, 0, -5), Phong shading with the primary light only
func DefaultConfig() Config {
	return Config{
		Scene:        "random",
		CameraZ:      scene.DefaultCameraZ,
		AngleStep:    scene.DefaultAngleStep,
		Options:      renderer.Options{Mode: renderer.ModePhong},
		RenderConfig: renderer.DefaultConfig(),
	}
}

// Session owns a scene, its animator and a renderer, and applies the
// keyboard commands and timer ticks of the interactive viewer. All methods
// are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	scene    *scene.Scene
	animator *scene.Animator
	renderer *renderer.Renderer
	opts     renderer.Options
	logger   core.Logger
	quit     bool
}

// New creates a session. A nil logger discards messages.
func New(config Config, logger core.Logger) (*Session, error) {
	if logger == nil {
		logger = renderer.NewDiscardLogger()
	}
	if err := config.Options.Validate(); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := scene.ValidateCameraZ(config.CameraZ); err != nil {
		return nil, err
	}
	s, err := loadScene(config.Scene, rand.New(rand.NewSource(seed)), config.CameraZ)
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	if err := scene.ValidateCameraZ(s.Camera.Z); err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	animator := scene.NewAnimator(s)
	if config.AngleStep != 0 {
		animator.SetStep(config.AngleStep)
	}

	return &Session{
		scene:    s,
		animator: animator,
		renderer: renderer.NewRenderer(config.RenderConfig),
		opts:     config.Options,
		logger:   logger,
	}, nil
}

// loadScene resolves a built-in scene ID or a PBRT scene file path
func loadScene(name string, rng core.RandomSource, cameraZ float64) (*scene.Scene, error) {
	if loaders.IsSceneFile(name) {
		return loaders.LoadScene(name, cameraZ)
	}
	return scene.NewNamedScene(name, rng, cameraZ)
}

// HandleKey applies one keyboard command and reports whether the frame
// needs to be redrawn. Unknown keys are ignored.
func (s *Session) HandleKey(key rune) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case 'm', 'M':
		s.opts.MultiLight = !s.opts.MultiLight
		if s.opts.MultiLight {
			s.logger.Printf("Displaying Multiple Light Sources\n")
		} else {
			s.logger.Printf("Displaying Single Light Source\n")
		}
		return true
	case '+':
		if s.scene.Camera.Z <= MinCameraZ {
			return false
		}
		s.moveCamera(s.scene.Camera.Z - CameraStep)
		return true
	case '-':
		if s.scene.Camera.Z >= MaxCameraZ {
			return false
		}
		s.moveCamera(s.scene.Camera.Z + CameraStep)
		return true
	case 'n', 'N':
		return s.setMode(renderer.ModeNormal)
	case 'p', 'P':
		return s.setMode(renderer.ModePhong)
	case 'q', 'Q', 27: // escape
		s.quit = true
		return false
	default:
		return false
	}
}

func (s *Session) moveCamera(z float64) {
	s.scene.SetCameraZ(z)
	s.logger.Printf("camera: %v\n", s.scene.Camera)
}

func (s *Session) setMode(mode renderer.Mode) bool {
	if s.opts.Mode == mode {
		return false
	}
	s.opts.Mode = mode
	s.logger.Printf("Render mode: %s\n", mode)
	return true
}

// SetShadowPolicy changes how multi-light shadows select coefficients
func (s *Session) SetShadowPolicy(policy renderer.ShadowPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.opts
	opts.ShadowPolicy = policy
	if err := opts.Validate(); err != nil {
		return err
	}
	s.opts = opts
	s.logger.Printf("Shadow policy: %s\n", policy)
	return nil
}

// Tick advances the animation by one step and renders the new frame
func (s *Session) Tick() (*image.RGBA, renderer.FrameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.animator.Tick()
	return s.renderer.RenderFrame(s.scene, s.opts)
}

// Step advances the animation by n ticks without rendering
func (s *Session) Step(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.animator.Tick()
	}
}

// Render renders the current state without advancing the animation
func (s *Session) Render() (*image.RGBA, renderer.FrameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.renderer.RenderFrame(s.scene, s.opts)
}

// Inspect reports how one pixel of the current frame is shaded
func (s *Session) Inspect(x, y int) (renderer.PixelInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.renderer.Inspect(s.scene, s.opts, x, y)
}

// Options returns the current render options
func (s *Session) Options() renderer.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Camera returns the current camera position
func (s *Session) Camera() core.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Camera
}

// Angle returns the current orbit angle
func (s *Session) Angle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Angle()
}

// QuitRequested reports whether the quit key was pressed
func (s *Session) QuitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quit
}

// Caption describes the current view, e.g. "camera: 0,0,-5  mode: phong  lights: single"
func (s *Session) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lightCount := "single"
	if s.opts.MultiLight {
		lightCount = "multi"
	}
	return fmt.Sprintf("camera: %v  mode: %s  lights: %s", s.scene.Camera, s.opts.Mode, lightCount)
}
