package renderer

import (
	"fmt"
	"strings"
)

// Mode selects how a hit pixel is colored
type Mode int

const (
	// ModePhong shades hits with the Phong model and shadow tests
	ModePhong Mode = iota
	// ModeNormal visualizes the surface normal as a color
	ModeNormal
)

// String returns the mode's command-line name
func (m Mode) String() string {
	switch m {
	case ModePhong:
		return "phong"
	case ModeNormal:
		return "normal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "phong" or "normal"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "phong":
		return ModePhong, nil
	case "normal":
		return ModeNormal, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q (want \"phong\" or \"normal\")", s)
	}
}

// ShadowPolicy decides which lights' occlusion selects the shadow
// coefficients when several lights are active
type ShadowPolicy int

const (
	// ShadowPrimary uses the primary light's occlusion for every light
	ShadowPrimary ShadowPolicy = iota
	// ShadowAny uses the shadow coefficients if any light is occluded
	ShadowAny
	// ShadowPerLight lets each light use its own occlusion
	ShadowPerLight
)

// String returns the policy's command-line name
func (p ShadowPolicy) String() string {
	switch p {
	case ShadowPrimary:
		return "primary"
	case ShadowAny:
		return "any"
	case ShadowPerLight:
		return "per-light"
	default:
		return fmt.Sprintf("ShadowPolicy(%d)", int(p))
	}
}

// ParseShadowPolicy parses "primary", "any" or "per-light"
func ParseShadowPolicy(s string) (ShadowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "":
		return ShadowPrimary, nil
	case "any":
		return ShadowAny, nil
	case "per-light", "perlight":
		return ShadowPerLight, nil
	default:
		return 0, fmt.Errorf("unknown shadow policy %q (want \"primary\", \"any\" or \"per-light\")", s)
	}
}

// Options select what a frame shows. The zero value renders Phong shading
// with the primary light only.
type Options struct {
	Mode         Mode
	MultiLight   bool         // Shade with every scene light instead of only the primary
	ShadowPolicy ShadowPolicy // Only consulted when MultiLight is set
}

// Validate rejects modes and policies outside the defined sets
func (o Options) Validate() error {
	switch o.Mode {
	case ModePhong, ModeNormal:
	default:
		return fmt.Errorf("invalid render mode %v", o.Mode)
	}
	switch o.ShadowPolicy {
	case ShadowPrimary, ShadowAny, ShadowPerLight:
	default:
		return fmt.Errorf("invalid shadow policy %v", o.ShadowPolicy)
	}
	return nil
}
