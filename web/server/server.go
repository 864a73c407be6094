package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/export"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/df07/go-phong-raytracer/pkg/session"
)

// Server handles web requests for the Phong raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// FrameRequest describes the scene state and render options shared by all endpoints
type FrameRequest struct {
	Scene   string           // Built-in scene ID
	Seed    int64            // Random seed for randomized scenes
	Width   int              // Image width
	Height  int              // Image height
	CameraZ float64          // Camera position on the z axis
	Step    int              // Animation ticks applied before rendering
	Keys    string           // Keyboard commands applied before rendering
	Caption bool             // Draw the view caption into PNG frames
	Options renderer.Options // Mode, light set and shadow policy
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the HTTP handler serving the static UI and the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(scene.ListScenes())
}

// handleFrame renders a single frame and returns it as PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, err := parseFrameRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.newSession(req, nil)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, stats, err := sess.Render()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	caption := ""
	if req.Caption {
		caption = sess.Caption()
	}

	var buf bytes.Buffer
	if err := export.WritePNG(&buf, img, caption); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// newSession builds a session in the requested state
func (s *Server) newSession(req *FrameRequest, logger core.Logger) (*session.Session, error) {
	config := session.DefaultConfig()
	config.Scene = req.Scene
	config.Seed = req.Seed
	config.CameraZ = req.CameraZ
	config.Options = req.Options
	config.RenderConfig.Width = req.Width
	config.RenderConfig.Height = req.Height

	sess, err := session.New(config, logger)
	if err != nil {
		return nil, err
	}
	for _, key := range req.Keys {
		sess.HandleKey(key)
	}
	sess.Step(req.Step)
	return sess, nil
}

// parseFrameRequest parses the query parameters shared by all rendering endpoints
func parseFrameRequest(values url.Values) (*FrameRequest, error) {
	req := &FrameRequest{Scene: "random"}
	if name := values.Get("scene"); name != "" {
		if err := validateSceneParam(name); err != nil {
			return nil, err
		}
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 600, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 600, 16, 2000); err != nil {
		return nil, err
	}
	if req.Step, err = parseIntParam(values, "step", 0, 0, 100000); err != nil {
		return nil, err
	}
	if req.CameraZ, err = parseFloatParam(values, "cameraZ", scene.DefaultCameraZ, scene.FarthestCameraZ, scene.NearestCameraZ); err != nil {
		return nil, err
	}
	if req.Caption, err = parseBoolParam(values, "caption", false); err != nil {
		return nil, err
	}
	if req.Options.MultiLight, err = parseBoolParam(values, "multi", false); err != nil {
		return nil, err
	}

	seed, err := parseIntParam(values, "seed", 1, 1, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	if mode := values.Get("mode"); mode != "" {
		if req.Options.Mode, err = renderer.ParseMode(mode); err != nil {
			return nil, err
		}
	}
	if req.Options.ShadowPolicy, err = renderer.ParseShadowPolicy(values.Get("shadowPolicy")); err != nil {
		return nil, err
	}

	req.Keys = values.Get("keys")
	for _, key := range req.Keys {
		// Quit has no meaning for a single request
		if key == 'q' || key == 'Q' {
			return nil, fmt.Errorf("invalid keys: %q", req.Keys)
		}
	}

	if req.Width*req.Height > 1000*1000 && req.Options.MultiLight {
		log.Printf("Render warning: Large multi-light frames may render slowly")
	}

	return req, nil
}

// validateSceneParam limits scene files to relative paths inside scenes/,
// so clients cannot load files from elsewhere on the host
func validateSceneParam(name string) error {
	if !loaders.IsSceneFile(name) {
		return nil
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || !strings.HasPrefix(clean, "scenes"+string(filepath.Separator)) {
		return fmt.Errorf("invalid scene: %s (scene files must be under scenes/)", name)
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image, caption string) (string, error) {
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, img, caption); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeJSONError writes {"error": message} with the given status
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
