package server

import (
	"encoding/json"
	"net/http"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	X           int        `json:"x"`
	Y           int        `json:"y"`
	Hit         bool       `json:"hit"`
	SphereIndex int        `json:"sphereIndex"` // -1 on a miss
	Point       [3]float64 `json:"point"`
	Normal      [3]float64 `json:"normal"`
	Distance    float64    `json:"distance"` // From the camera to the hit point
	Occluded    []bool     `json:"occluded"` // Per active light, Phong mode only
	Shadowed    bool       `json:"shadowed"`
	Color       string     `json:"color"` // #rrggbb
	RGB         [3]float64 `json:"rgb"`
	Mode        string     `json:"mode"`
}

// handleInspect reports how a single pixel (image coordinates, row 0 at the top) is shaded
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	values := r.URL.Query()
	req, err := parseFrameRequest(values)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	x, err := parseIntParam(values, "x", req.Width/2, 0, req.Width-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(values, "y", req.Height/2, 0, req.Height-1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.newSession(req, nil)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := sess.Inspect(x, y)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newInspectResponse(info, sess.Camera(), sess.Options()))
}

// newInspectResponse converts renderer pixel information for JSON output
func newInspectResponse(info renderer.PixelInfo, camera core.Vec3, opts renderer.Options) InspectResponse {
	response := InspectResponse{
		X:           info.X,
		Y:           info.Y,
		Hit:         info.Hit,
		SphereIndex: info.SphereIndex,
		Occluded:    info.Occluded,
		Shadowed:    info.Shadowed,
		Color:       info.Color.Hex(),
		RGB:         [3]float64{info.Color.R, info.Color.G, info.Color.B},
		Mode:        opts.Mode.String(),
	}
	if info.Hit {
		response.Point = [3]float64{info.Point.X, info.Point.Y, info.Point.Z}
		response.Normal = [3]float64{info.Normal.X, info.Normal.Y, info.Normal.Z}
		response.Distance = camera.Distance(info.Point)
	}
	if response.Occluded == nil {
		response.Occluded = []bool{}
	}
	return response
}
