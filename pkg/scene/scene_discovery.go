package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultGridSize is the grid dimension used by the "grid" scene
const DefaultGridSize = 5

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Animated    bool   `json:"animated"`    // Whether the scene has an orbit
}

var builtinScenes = map[string]SceneInfo{
	"random": {
		ID:          "random",
		DisplayName: "Random Orbit",
		Description: "Two randomly placed spheres, one orbiting the other",
		Animated:    true,
	},
	"eclipse": {
		ID:          "eclipse",
		DisplayName: "Eclipse",
		Description: "A moon between a planet and the key light",
		Animated:    true,
	},
	"grid": {
		ID:          "grid",
		DisplayName: "Sphere Grid",
		Description: "A static wall of spheres colored by hue and chroma",
		Animated:    false,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, info := range builtinScenes {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewNamedScene creates a built-in scene by ID. rng is only consumed by
// randomized scenes.
func NewNamedScene(name string, rng core.RandomSource, cameraZ float64) (*Scene, error) {
	switch name {
	case "random":
		if rng == nil {
			return nil, fmt.Errorf("scene %q requires a random source", name)
		}
		return NewRandomScene(rng, cameraZ), nil
	case "eclipse":
		return NewEclipseScene(cameraZ), nil
	case "grid":
		return NewSphereGridScene(DefaultGridSize, cameraZ), nil
	default:
		return nil, fmt.Errorf("unknown scene: %q", name)
	}
}
