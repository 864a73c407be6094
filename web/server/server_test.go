package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := serve(t, "/api/scenes")

	var scenes []scene.SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(scenes))
	}
}

func TestHandleFrame(t *testing.T) {
	rec := serve(t, "/api/frame?scene=eclipse&width=48&height=32&mode=normal&caption=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 32 {
		t.Errorf("Expected 48x32 frame, got %v", img.Bounds())
	}
}

func TestHandleFrame_BadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=cornell"},
		{"width too small", "width=2"},
		{"bad mode", "mode=wireframe"},
		{"bad policy", "shadowPolicy=some"},
		{"bad bool", "multi=maybe"},
		{"camera inside scene", "cameraZ=0.5"},
		{"quit key", "keys=mq"},
		{"absolute scene file", "scene=/tmp/scenes/eclipse.pbrt"},
		{"scene file outside scenes", "scene=scenes/../../secret.pbrt"},
		{"scene file in other directory", "scene=other/eclipse.pbrt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/api/frame?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	rec := serve(t, "/api/inspect?scene=eclipse&width=64&height=64&mode=normal")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !response.Hit || response.SphereIndex != 0 {
		t.Errorf("Expected the planet at the image center, got %+v", response)
	}
	if response.Mode != "normal" {
		t.Errorf("Expected normal mode, got %s", response.Mode)
	}
	if response.Distance <= 0 {
		t.Errorf("Expected positive distance, got %f", response.Distance)
	}
	if len(response.Color) != 7 || response.Color[0] != '#' {
		t.Errorf("Expected #rrggbb color, got %q", response.Color)
	}
}

func TestHandleInspect_Miss(t *testing.T) {
	rec := serve(t, "/api/inspect?scene=eclipse&width=64&height=64&x=0&y=0")

	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if response.Hit || response.SphereIndex != -1 {
		t.Errorf("Expected a miss in the corner, got %+v", response)
	}
	if response.Color != "#000000" {
		t.Errorf("Expected background color, got %s", response.Color)
	}
	if response.Occluded == nil {
		t.Error("Expected an empty occlusion list, got null")
	}
}

func TestHandleInspect_OutOfRange(t *testing.T) {
	rec := serve(t, "/api/inspect?width=64&height=64&x=64")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleRender_StreamsFrames(t *testing.T) {
	rec := serve(t, "/api/render?scene=eclipse&width=32&height=32&frames=3&keys=m")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: frame\n"); n != 3 {
		t.Errorf("Expected 3 frame events, got %d", n)
	}
	if !strings.Contains(body, "event: complete\n") {
		t.Error("Expected a completion event")
	}
	if !strings.Contains(body, "Displaying Multiple Light Sources") {
		t.Error("Expected the key press to be logged to the console stream")
	}
	if strings.Index(body, "event: console") > strings.Index(body, "event: frame") {
		t.Error("Expected console output before the first frame")
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	rec := serve(t, "/api/render?frames=0")
	body := rec.Body.String()
	if !strings.Contains(body, "event: error\n") {
		t.Errorf("Expected an error event, got %q", body)
	}
	if strings.Contains(body, "event: frame") {
		t.Error("Expected no frames for an invalid request")
	}
}

func TestParseFrameRequest_Defaults(t *testing.T) {
	req, err := parseFrameRequest(url.Values{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Scene != "random" || req.Width != 600 || req.Height != 600 {
		t.Errorf("Unexpected defaults %+v", req)
	}
	if req.CameraZ != scene.DefaultCameraZ {
		t.Errorf("Expected camera z %f, got %f", scene.DefaultCameraZ, req.CameraZ)
	}
	if req.Options != (renderer.Options{}) {
		t.Errorf("Expected Phong, single light, primary policy; got %+v", req.Options)
	}
}

func TestParseFrameRequest_Options(t *testing.T) {
	values := url.Values{
		"mode":         {"normal"},
		"multi":        {"true"},
		"shadowPolicy": {"per-light"},
		"step":         {"10"},
		"seed":         {"99"},
	}
	req, err := parseFrameRequest(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := renderer.Options{Mode: renderer.ModeNormal, MultiLight: true, ShadowPolicy: renderer.ShadowPerLight}
	if req.Options != expected {
		t.Errorf("Expected %+v, got %+v", expected, req.Options)
	}
	if req.Step != 10 || req.Seed != 99 {
		t.Errorf("Expected step 10 seed 99, got step %d seed %d", req.Step, req.Seed)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expected    int
		expectError bool
	}{
		{"default", "", 7, false},
		{"valid", "12", 12, false},
		{"not a number", "abc", 0, true},
		{"below range", "0", 0, true},
		{"above range", "101", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.value)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("Expected %d, got %d (err %v)", tt.expected, got, err)
			}
		})
	}
}

func TestParseFloatParam(t *testing.T) {
	values := url.Values{"z": {"-7.5"}}
	if got, err := parseFloatParam(values, "z", -5, -10, -1); err != nil || got != -7.5 {
		t.Errorf("Expected -7.5, got %f (err %v)", got, err)
	}
	if _, err := parseFloatParam(url.Values{"z": {"-11"}}, "z", -5, -10, -1); err == nil {
		t.Error("Expected range error")
	}
	if got, _ := parseFloatParam(url.Values{}, "z", -5, -10, -1); got != -5 {
		t.Errorf("Expected default -5, got %f", got)
	}
}

func TestValidateSceneParam(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"random", false},
		{"eclipse", false},
		{"scenes/eclipse.pbrt", false},
		{"./scenes/five-lights.pbrt", false},
		{"/etc/scenes/eclipse.pbrt", true},
		{"scenes/../eclipse.pbrt", true},
		{"../scenes/eclipse.pbrt", true},
		{"eclipse.pbrt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSceneParam(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSceneParam(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
