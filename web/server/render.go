package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/session"
)

// FrameUpdate represents a single animation frame sent via SSE
type FrameUpdate struct {
	FrameNumber int     `json:"frameNumber"` // 1-based
	TotalFrames int     `json:"totalFrames"`
	Angle       float64 `json:"angle"`     // Orbit angle in radians
	ImageData   string  `json:"imageData"` // Base64 encoded PNG
	Stats       Stats   `json:"stats"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

// Stats represents frame statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	HitPixels      int     `json:"hitPixels"`
	ShadowedPixels int     `json:"shadowedPixels"`
	HitRatio       float64 `json:"hitRatio"`
	Workers        int     `json:"workers"`
	RenderMs       int64   `json:"renderMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// AnimationRequest adds playback settings to a frame request
type AnimationRequest struct {
	FrameRequest
	Frames int // Number of frames to stream
	FPS    int // Target frame rate (0 = as fast as possible)
}

// handleRender streams an orbit animation via SSE, one frame per tick
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel; only this goroutine sends on it
	sseEventChan := make(chan SSEEvent, 100)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		writer.Wait()
	}()

	// Parse and validate request
	req, err := parseAnimationRequest(r.URL.Query())
	if err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging; key presses are logged before the first frame
	consoleChan, webLogger := s.setupConsoleLogging()
	sess, err := s.newSession(&req.FrameRequest, webLogger)
	if err != nil {
		s.forwardConsole(ctx, consoleChan, sseEventChan)
		s.sendEvent(ctx, sseEventChan, "error", err.Error())
		return
	}

	if err := s.streamFrames(ctx, sess, req, consoleChan, sseEventChan); err != nil {
		s.sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	// Send completion event
	s.sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
}

// streamFrames ticks the session and sends each frame, pacing to the requested rate
func (s *Server) streamFrames(ctx context.Context, sess *session.Session, req *AnimationRequest,
	consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) error {

	var pace <-chan time.Time
	if req.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(req.FPS))
		defer ticker.Stop()
		pace = ticker.C
	}

	startTime := time.Now()
	for frame := 1; frame <= req.Frames; frame++ {
		if frame > 1 && pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
				return nil
			}
		}
		if ctx.Err() != nil {
			// Client disconnected
			return nil
		}

		img, stats, err := sess.Tick()
		if err != nil {
			return err
		}

		caption := ""
		if req.Caption {
			caption = sess.Caption()
		}
		imageData, err := s.imageToBase64PNG(img, caption)
		if err != nil {
			return fmt.Errorf("failed to encode image: %w", err)
		}

		update := FrameUpdate{
			FrameNumber: frame,
			TotalFrames: req.Frames,
			Angle:       sess.Angle(),
			ImageData:   imageData,
			Stats:       newStats(stats),
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}
		data, err := json.Marshal(update)
		if err != nil {
			return err
		}

		s.forwardConsole(ctx, consoleChan, sseEventChan)
		s.sendEvent(ctx, sseEventChan, "frame", string(data))
	}
	s.forwardConsole(ctx, consoleChan, sseEventChan)
	return nil
}

// newStats converts renderer statistics for JSON output
func newStats(stats renderer.FrameStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		HitPixels:      stats.HitPixels,
		ShadowedPixels: stats.ShadowedPixels,
		HitRatio:       stats.HitRatio(),
		Workers:        stats.Workers,
		RenderMs:       stats.Duration.Milliseconds(),
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes all SSE events from a single goroutine until the channel closes
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range sseEventChan {
		if ctx.Err() != nil {
			// Client disconnected; drain so the sender never blocks
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// forwardConsole moves pending console messages onto the SSE channel
func (s *Server) forwardConsole(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.sendEvent(ctx, sseEventChan, "console", string(data))
		default:
			return
		}
	}
}

// sendEvent queues one SSE event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// parseAnimationRequest parses a frame request plus playback settings
func parseAnimationRequest(values url.Values) (*AnimationRequest, error) {
	frameReq, err := parseFrameRequest(values)
	if err != nil {
		return nil, err
	}

	req := &AnimationRequest{FrameRequest: *frameReq}
	if req.Frames, err = parseIntParam(values, "frames", 60, 1, 10000); err != nil {
		return nil, err
	}
	if req.FPS, err = parseIntParam(values, "fps", 0, 0, 60); err != nil {
		return nil, err
	}
	return req, nil
}
