package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/session"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// viewer drives a session from the ebiten game loop: every update reads the
// typed keys, advances the orbit by one tick and uploads the new frame.
type viewer struct {
	session *session.Session
	frame   *ebiten.Image
	width   int
	height  int
	stats   renderer.FrameStats
}

func newViewer(s *session.Session, width, height int) *viewer {
	return &viewer{
		session: s,
		frame:   ebiten.NewImage(width, height),
		width:   width,
		height:  height,
	}
}

func (v *viewer) Update() error {
	for _, key := range ebiten.AppendInputChars(nil) {
		v.session.HandleKey(key)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.session.HandleKey(0x1b)
	}
	if v.session.QuitRequested() {
		return ebiten.Termination
	}

	img, stats, err := v.session.Tick()
	if err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	v.frame.WritePixels(img.Pix)
	v.stats = stats
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.frame, nil)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n%v", v.session.Caption(), v.stats.Duration))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func main() {
	config := session.DefaultConfig()
	flag.StringVar(&config.Scene, "scene", config.Scene, "Scene ID or scenes/*.pbrt file")
	flag.Int64Var(&config.Seed, "seed", 0, "Random seed (0 = time based)")
	flag.IntVar(&config.RenderConfig.Width, "width", config.RenderConfig.Width, "Window width")
	flag.IntVar(&config.RenderConfig.Height, "height", config.RenderConfig.Height, "Window height")
	tps := flag.Int("tps", 30, "Animation ticks per second")
	flag.Parse()

	s, err := session.New(config, renderer.NewDefaultLogger())
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.RenderConfig.Width, config.RenderConfig.Height)
	ebiten.SetWindowTitle("Phong Raytracer")
	ebiten.SetTPS(*tps)
	if err := ebiten.RunGame(newViewer(s, config.RenderConfig.Width, config.RenderConfig.Height)); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
