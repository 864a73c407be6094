package scene

import (
	"math/rand"
	"testing"
)

func TestListScenes(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != 3 {
		t.Fatalf("Expected 3 built-in scenes, got %d", len(scenes))
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i-1].ID >= scenes[i].ID {
			t.Errorf("Expected scenes sorted by ID, got %q before %q", scenes[i-1].ID, scenes[i].ID)
		}
	}
}

func TestNewNamedScene(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, info := range ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := NewNamedScene(info.ID, rng, -6)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(s.Spheres) == 0 {
				t.Error("Expected at least one sphere")
			}
			if len(s.Lights) == 0 {
				t.Error("Expected lights")
			}
			if s.Camera.Z != -6 {
				t.Errorf("Expected camera z -6, got %f", s.Camera.Z)
			}
			if (s.Orbit != nil) != info.Animated {
				t.Errorf("Expected animated=%t, orbit=%v", info.Animated, s.Orbit)
			}
		})
	}

	if _, err := NewNamedScene("cornell", rng, -5); err == nil {
		t.Error("Expected error for unknown scene")
	}
	if _, err := NewNamedScene("random", nil, -5); err == nil {
		t.Error("Expected error for random scene without a random source")
	}
}

func TestNewSphereGridScene(t *testing.T) {
	s := NewSphereGridScene(4, DefaultCameraZ)
	if len(s.Spheres) != 16 {
		t.Fatalf("Expected 16 spheres, got %d", len(s.Spheres))
	}
	for i, sphere := range s.Spheres {
		c := sphere.Color
		if c.R < 0 || c.R > 255 || c.G < 0 || c.G > 255 || c.B < 0 || c.B > 255 {
			t.Errorf("Sphere %d color out of range: %v", i, c)
		}
		if sphere.Center.Z != 0 {
			t.Errorf("Sphere %d expected on the z=0 plane, got %v", i, sphere.Center)
		}
	}

	if single := NewSphereGridScene(1, DefaultCameraZ); len(single.Spheres) != 1 || single.Spheres[0].Center.X != 0 {
		t.Errorf("Expected one centered sphere, got %d spheres", len(single.Spheres))
	}
}
