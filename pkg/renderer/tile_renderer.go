package renderer

import (
	"image"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// FarDepth is the initial depth for the nearest-hit search; hits at or
// beyond it are ignored
const FarDepth = 600.0

// frame is the read-only state shared by every tile of one frame
type frame struct {
	scene  *scene.Scene
	opts   Options
	lights []lights.Directional // Active lights; lights[0] is primary
	width  int
	height int
	img    *image.RGBA
}

// PixelInfo describes how a single pixel was computed
type PixelInfo struct {
	X, Y        int        // Image coordinates (row 0 at the top)
	Hit         bool       // Whether any sphere was hit
	SphereIndex int        // Index of the nearest sphere, -1 on a miss
	Point       core.Vec3  // Nearest hit point
	Normal      core.Vec3  // Outward normal at Point
	Occluded    []bool     // Shadow test result per active light (Phong mode)
	Shadowed    bool       // Occluded from the primary light
	Color       core.Color // Displayable pixel color
}

// TileRenderer computes pixels for one worker. It owns a set of Phong
// shaders whose surface binding changes per pixel, so it must not be shared
// between goroutines.
type TileRenderer struct {
	shaders  []*material.Phong
	occluded []bool
}

// NewTileRenderer creates a tile renderer with no shaders bound yet
func NewTileRenderer() *TileRenderer {
	return &TileRenderer{}
}

// prepare binds one shader per active light of the frame
func (tr *TileRenderer) prepare(f *frame) {
	if len(tr.shaders) != len(f.lights) {
		tr.shaders = material.NewPhongSet(f.scene.Camera, f.lights)
		tr.occluded = make([]bool, len(f.lights))
		return
	}
	for i, shader := range tr.shaders {
		shader.SetCamera(f.scene.Camera)
		shader.SetLight(f.lights[i])
	}
}

// RenderTileBounds renders pixels within the specified bounds into the frame image
func (tr *TileRenderer) RenderTileBounds(f *frame, bounds image.Rectangle) FrameStats {
	tr.prepare(f)

	stats := FrameStats{TotalPixels: bounds.Dx() * bounds.Dy(), Tiles: 1}
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			info := tr.tracePixel(f, i, j)
			f.img.SetRGBA(i, j, info.Color.ToRGBA())

			if info.Hit {
				stats.HitPixels++
			}
			if info.Shadowed {
				stats.ShadowedPixels++
			}
		}
	}
	return stats
}

// cameraRay builds the ray through image pixel (x, row). Rows are counted
// from the top of the image; the image plane's y axis points up.
func cameraRay(f *frame, x, row int) core.Ray {
	y := f.height - 1 - row

	// Linear map of the pixel offset from the image center onto [-1, 1]
	xpos := float64(x-f.width/2) * 2.0 / float64(f.width)
	ypos := float64(y-f.height/2) * 2.0 / float64(f.height)

	return core.NewRayTo(f.scene.Camera, core.NewVec3(xpos, ypos, 0))
}

// nearestHit returns the hit with the smallest depth (z). Equal depths keep
// the first sphere found.
func nearestHit(spheres []*geometry.Sphere, ray core.Ray) (int, geometry.Hit) {
	closest := -1
	var closestHit geometry.Hit
	depth := FarDepth

	for index, sphere := range spheres {
		if hit, isHit := sphere.Hit(ray); isHit && hit.Point.Z < depth {
			closest = index
			closestHit = hit
			depth = hit.Point.Z
		}
	}
	return closest, closestHit
}

// normalColor maps each normal component from [-1, 1] to 127 + 127*n
func normalColor(normal core.Vec3) core.Color {
	return core.NewColor(
		127+127*normal.X,
		127+127*normal.Y,
		127+127*normal.Z,
	).Clamp()
}

// tracePixel computes one pixel. The returned Occluded slice aliases the
// renderer's scratch space and is only valid until the next call.
func (tr *TileRenderer) tracePixel(f *frame, x, row int) PixelInfo {
	info := PixelInfo{X: x, Y: row, SphereIndex: -1, Color: f.scene.Background}

	index, hit := nearestHit(f.scene.Spheres, cameraRay(f, x, row))
	if index < 0 {
		return info
	}

	info.Hit = true
	info.SphereIndex = index
	info.Point = hit.Point
	info.Normal = hit.Normal

	switch f.opts.Mode {
	case ModeNormal:
		info.Color = normalColor(hit.Normal)
	case ModePhong:
		info.Color = tr.shadePhong(f, index, hit)
		info.Occluded = tr.occluded
		info.Shadowed = tr.occluded[0]
	}
	return info
}

// shadePhong runs the shadow tests and sums every active light's contribution
func (tr *TileRenderer) shadePhong(f *frame, index int, hit geometry.Hit) core.Color {
	anyOccluded := false
	for i, light := range f.lights {
		tr.occluded[i] = geometry.InShadow(hit.Point, light.Direction, index, f.scene.Spheres)
		anyOccluded = anyOccluded || tr.occluded[i]
	}

	surface := f.scene.Spheres[index].Color
	for i, shader := range tr.shaders {
		var occluded bool
		switch f.opts.ShadowPolicy {
		case ShadowPrimary:
			// Every light follows the primary light's shadow state
			occluded = tr.occluded[0]
		case ShadowAny:
			occluded = anyOccluded
		case ShadowPerLight:
			occluded = tr.occluded[i]
		}
		shader.SetObject(surface, material.ForOcclusion(occluded))
	}

	return material.ShadeAll(tr.shaders, hit.Point, hit.Normal)
}
