package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/export"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/df07/go-phong-raytracer/pkg/session"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	Scene        string
	Mode         string
	MultiLight   bool
	ShadowPolicy string
	CameraZ      float64
	Seed         int64
	Width        int
	Height       int
	Workers      int
	Frames       int
	Keys         string
	OutputDir    string
	GIF          bool
	Caption      bool
}

func main() {
	// Parse command line flags
	var opts cliOptions
	flag.StringVar(&opts.Scene, "scene", "random", "Scene: 'random', 'eclipse', 'grid' or a scenes/*.pbrt file")
	flag.StringVar(&opts.Mode, "mode", "phong", "Render mode: 'phong' or 'normal'")
	flag.BoolVar(&opts.MultiLight, "multi", false, "Shade with all five lights instead of the primary light only")
	flag.StringVar(&opts.ShadowPolicy, "shadow-policy", "primary", "Multi-light shadows: 'primary', 'any' or 'per-light'")
	flag.Float64Var(&opts.CameraZ, "camera-z", scene.DefaultCameraZ, "Camera position on the z axis (-50 to -1)")
	flag.Int64Var(&opts.Seed, "seed", 0, "Random seed for the random scene (0 = time based)")
	flag.IntVar(&opts.Width, "width", 600, "Image width in pixels")
	flag.IntVar(&opts.Height, "height", 600, "Image height in pixels")
	flag.IntVar(&opts.Workers, "workers", 0, "Render workers (0 = CPU count)")
	flag.IntVar(&opts.Frames, "frames", 1, "Number of animation frames (1 = a single still)")
	flag.StringVar(&opts.Keys, "keys", "", "Keyboard commands applied before rendering, e.g. 'm++n'")
	flag.StringVar(&opts.OutputDir, "out", "output", "Output directory")
	flag.BoolVar(&opts.GIF, "gif", false, "Write an animated GIF instead of numbered PNG frames")
	flag.BoolVar(&opts.Caption, "caption", false, "Draw the camera and mode caption into each frame")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Phong Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-8s - %s\n", info.ID, info.Description)
		}
		fmt.Println("  scenes/<name>.pbrt - Sphere scene file (Shape \"sphere\", LightSource \"distant\")")
		fmt.Println()
		fmt.Println("Keys: m toggle lights, + camera away, - camera closer, n normals, p Phong")
		fmt.Println()
		fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png (or .gif)")
		return
	}

	if err := run(opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// buildSessionConfig validates the command line and turns it into a session configuration
func buildSessionConfig(opts cliOptions) (session.Config, error) {
	config := session.DefaultConfig()

	mode, err := renderer.ParseMode(opts.Mode)
	if err != nil {
		return session.Config{}, err
	}
	policy, err := renderer.ParseShadowPolicy(opts.ShadowPolicy)
	if err != nil {
		return session.Config{}, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return session.Config{}, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if err := scene.ValidateCameraZ(opts.CameraZ); err != nil {
		return session.Config{}, err
	}
	if opts.Frames < 1 {
		return session.Config{}, fmt.Errorf("frames must be at least 1, got %d", opts.Frames)
	}

	config.Scene = opts.Scene
	config.Seed = opts.Seed
	config.CameraZ = opts.CameraZ
	config.Options = renderer.Options{Mode: mode, MultiLight: opts.MultiLight, ShadowPolicy: policy}
	config.RenderConfig.Width = opts.Width
	config.RenderConfig.Height = opts.Height
	config.RenderConfig.NumWorkers = opts.Workers
	return config, nil
}

func run(opts cliOptions) error {
	config, err := buildSessionConfig(opts)
	if err != nil {
		return err
	}

	fmt.Println("Starting Phong Raytracer...")
	fmt.Printf("Using %s scene...\n", opts.Scene)

	sess, err := session.New(config, renderer.NewDefaultLogger())
	if err != nil {
		return err
	}
	for _, key := range opts.Keys {
		sess.HandleKey(key)
	}

	// Output goes to a directory named after the scene
	outputDir := filepath.Join(opts.OutputDir, sceneOutputName(opts.Scene))
	timestamp := time.Now().Format("20060102_150405")

	if opts.Frames == 1 {
		return renderStill(sess, outputDir, timestamp, opts.Caption)
	}
	return renderAnimation(sess, outputDir, timestamp, opts)
}

// renderStill renders the current frame without advancing the animation
func renderStill(sess *session.Session, outputDir, timestamp string, caption bool) error {
	img, stats, err := sess.Render()
	if err != nil {
		return err
	}
	printStats(stats)

	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := export.SavePNG(filename, img, captionFor(sess, caption)); err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", filename)
	return nil
}

// renderAnimation ticks the orbit once per frame
func renderAnimation(sess *session.Session, outputDir, timestamp string, opts cliOptions) error {
	var anim *export.Animation
	if opts.GIF {
		anim = export.NewAnimation(export.DefaultFrameDelay)
	}

	var total time.Duration
	for frame := 1; frame <= opts.Frames; frame++ {
		img, stats, err := sess.Tick()
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		total += stats.Duration

		if anim != nil {
			anim.AddFrame(export.Caption(img, captionFor(sess, opts.Caption)))
			continue
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("render_%s_%04d.png", timestamp, frame))
		if err := export.SavePNG(filename, img, captionFor(sess, opts.Caption)); err != nil {
			return err
		}
	}

	fmt.Printf("Rendered %d frames in %v (%v per frame)\n", opts.Frames, total, total/time.Duration(opts.Frames))

	if anim == nil {
		fmt.Printf("Frames saved in %s\n", outputDir)
		return nil
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.gif", timestamp))
	if err := anim.Save(filename); err != nil {
		return err
	}
	fmt.Printf("Animation saved as %s\n", filename)
	return nil
}

// sceneOutputName turns a scene ID or scene file path into a directory name
func sceneOutputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func captionFor(sess *session.Session, enabled bool) string {
	if !enabled {
		return ""
	}
	return sess.Caption()
}

func printStats(stats renderer.FrameStats) {
	fmt.Printf("Render completed in %v\n", stats.Duration)
	fmt.Printf("Pixels: %d, hits: %.1f%%, shadowed: %d (%d tiles on %d workers)\n",
		stats.TotalPixels, stats.HitRatio()*100, stats.ShadowedPixels, stats.Tiles, stats.Workers)
}
