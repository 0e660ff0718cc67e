package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSegments   = errors.New("manifest has no segments")
	ErrMissingMedia = errors.New("segment has no media")
)

// Validate reports problems that make the manifest unrenderable.
// Everything else degrades to defaults.
func (m *Manifest) Validate() error {
	if len(m.Segments) == 0 {
		return ErrNoSegments
	}

	var errs []error
	for i, s := range m.Segments {
		if strings.TrimSpace(s.Media) == "" {
			errs = append(errs, fmt.Errorf("segment %d: %w", i, ErrMissingMedia))
		}
	}
	return errors.Join(errs...)
}

// Lint lists values that will be replaced by a default at render time.
func (m *Manifest) Lint() []string {
	var warnings []string

	if m.FPS <= 0 {
		warnings = append(warnings, fmt.Sprintf("fps %v is not positive, using %v", m.FPS, DefaultFPS))
	}

	for i, s := range m.Segments {
		if s.Transition != "" && !Transition(normalize(string(s.Transition))).Known() {
			warnings = append(warnings, fmt.Sprintf("segment %d: unknown transition %q, using %q", i, s.Transition, s.TransitionType()))
		}
		if s.KenBurns != "" && !KenBurns(normalize(string(s.KenBurns))).Known() {
			warnings = append(warnings, fmt.Sprintf("segment %d: unknown kenBurns %q, using %q", i, s.KenBurns, s.KenBurnsType()))
		}
		if s.TextAnimation != "" && !TextAnimation(normalize(string(s.TextAnimation))).Known() {
			warnings = append(warnings, fmt.Sprintf("segment %d: unknown textAnimation %q, using %q", i, s.TextAnimation, s.TextAnimationType()))
		}
		if s.Duration < 0 {
			warnings = append(warnings, fmt.Sprintf("segment %d: negative duration %v, using %v", i, s.Duration, DefaultDuration))
		}
		if s.SfxVolume != nil && (*s.SfxVolume < 0 || *s.SfxVolume > 1) {
			warnings = append(warnings, fmt.Sprintf("segment %d: sfxVolume %v clamped to [0,1]", i, *s.SfxVolume))
		}
	}

	if m.Style != nil && m.Style.SubtitlePosition != "" {
		switch SubtitlePosition(normalize(string(m.Style.SubtitlePosition))) {
		case PositionTop, PositionCenter, PositionBottom:
		default:
			warnings = append(warnings, fmt.Sprintf("style: unknown subtitlePosition %q, using %q", m.Style.SubtitlePosition, DefaultSubtitlePosition))
		}
	}

	return warnings
}

