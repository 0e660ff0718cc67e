package manifest

import (
	"math"
	"path"
	"strings"
)

// Defaults substituted for absent optional fields.
const (
	DefaultFPS              = 30.0
	DefaultDuration         = 3.0 // seconds
	DefaultSfxVolume        = 0.5
	DefaultFontFamily       = `"Inter", "SF Pro Display", -apple-system, BlinkMacSystemFont, sans-serif`
	DefaultAccentColor      = "#ff6b6b"
	DefaultSubtitlePosition = PositionBottom
)

var imageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp"}

// Manifest is the complete description of one short-form video
type Manifest struct {
	FPS      float64   `json:"fps" yaml:"fps"`
	Segments []Segment `json:"segments" yaml:"segments"`
	Style    *Style    `json:"style,omitempty" yaml:"style,omitempty"`
	// Upload is carried for publishing tooling and never read by rendering.
	Upload *Upload `json:"upload,omitempty" yaml:"upload,omitempty"`
}

// Segment is one beat of the video: media plus optional voice, sfx and caption
type Segment struct {
	Voice          string        `json:"voice,omitempty" yaml:"voice,omitempty"`
	Media          string        `json:"media" yaml:"media"`
	IsImage        *bool         `json:"isImage,omitempty" yaml:"isImage,omitempty"`
	MediaStartTime float64       `json:"mediaStartTime,omitempty" yaml:"mediaStartTime,omitempty"` // seconds into the source video
	Duration       float64       `json:"duration,omitempty" yaml:"duration,omitempty"`             // seconds on the output timeline
	Subtitle       string        `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Crop           *Crop         `json:"crop,omitempty" yaml:"crop,omitempty"`
	Sfx            string        `json:"sfx,omitempty" yaml:"sfx,omitempty"`
	SfxVolume      *float64      `json:"sfxVolume,omitempty" yaml:"sfxVolume,omitempty"`
	SfxOffset      float64       `json:"sfxOffset,omitempty" yaml:"sfxOffset,omitempty"` // seconds after segment start
	Transition     Transition    `json:"transition,omitempty" yaml:"transition,omitempty"`
	KenBurns       KenBurns      `json:"kenBurns,omitempty" yaml:"kenBurns,omitempty"`
	TextAnimation  TextAnimation `json:"textAnimation,omitempty" yaml:"textAnimation,omitempty"`
}

// Crop is a rectangle in source pixel space.
// Zero width/height fall back to the output canvas size.
type Crop struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Style holds global subtitle styling.
type Style struct {
	SubtitlePosition SubtitlePosition `json:"subtitlePosition,omitempty" yaml:"subtitlePosition,omitempty"`
	ShowSubtitles    *bool            `json:"showSubtitles,omitempty" yaml:"showSubtitles,omitempty"`
	FontFamily       string           `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	AccentColor      string           `json:"accentColor,omitempty" yaml:"accentColor,omitempty"`
}

// Upload is opaque publishing metadata.
type Upload struct {
	Caption   string   `json:"caption" yaml:"caption"`
	Platforms []string `json:"platforms" yaml:"platforms"`
}

// ResolvedStyle is Style with every default applied.
type ResolvedStyle struct {
	SubtitlePosition SubtitlePosition
	ShowSubtitles    bool
	FontFamily       string
	AccentColor      string
}

// FrameRate returns the manifest fps, or DefaultFPS when unset.
func (m *Manifest) FrameRate() float64 {
	if m.FPS <= 0 {
		return DefaultFPS
	}
	return m.FPS
}

// ResolvedStyle applies style defaults.
func (m *Manifest) ResolvedStyle() ResolvedStyle {
	rs := ResolvedStyle{
		SubtitlePosition: DefaultSubtitlePosition,
		ShowSubtitles:    true,
		FontFamily:       DefaultFontFamily,
		AccentColor:      DefaultAccentColor,
	}
	if m.Style == nil {
		return rs
	}

	rs.SubtitlePosition = ParseSubtitlePosition(string(m.Style.SubtitlePosition))
	if m.Style.ShowSubtitles != nil {
		rs.ShowSubtitles = *m.Style.ShowSubtitles
	}
	if strings.TrimSpace(m.Style.FontFamily) != "" {
		rs.FontFamily = m.Style.FontFamily
	}
	if strings.TrimSpace(m.Style.AccentColor) != "" {
		rs.AccentColor = m.Style.AccentColor
	}
	return rs
}

// DurationSeconds returns the segment duration, treating absent or
// non-positive values as DefaultDuration.
func (s Segment) DurationSeconds() float64 {
	if s.Duration <= 0 {
		return DefaultDuration
	}
	return s.Duration
}

// DurationInFrames is ceil(duration × fps).
func (s Segment) DurationInFrames(fps float64) int {
	return int(math.Ceil(s.DurationSeconds() * fps))
}

// MediaIsImage honours the explicit override, else checks the extension.
func (s Segment) MediaIsImage() bool {
	if s.IsImage != nil {
		return *s.IsImage
	}
	return IsImageFile(s.Media)
}

// MediaStartFrame is the first source frame played for video media.
func (s Segment) MediaStartFrame(fps float64) int {
	if s.MediaStartTime <= 0 {
		return 0
	}
	return int(math.Floor(s.MediaStartTime * fps))
}

// Volume returns the sfx volume clamped to [0,1].
func (s Segment) Volume() float64 {
	if s.SfxVolume == nil {
		return DefaultSfxVolume
	}
	return math.Max(0, math.Min(1, *s.SfxVolume))
}

// SfxOffsetFrames is floor(sfxOffset × fps); negative offsets count as 0.
func (s Segment) SfxOffsetFrames(fps float64) int {
	if s.SfxOffset <= 0 {
		return 0
	}
	return int(math.Floor(s.SfxOffset * fps))
}

func (s Segment) TransitionType() Transition {
	return ParseTransition(string(s.Transition))
}

func (s Segment) KenBurnsType() KenBurns {
	return ParseKenBurns(string(s.KenBurns))
}

func (s Segment) TextAnimationType() TextAnimation {
	return ParseTextAnimation(string(s.TextAnimation))
}

// IsImageFile reports whether p has one of the still-image extensions.
// The check is case-insensitive; a name without a dot is never an image.
func IsImageFile(p string) bool {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	dot := strings.LastIndex(base, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(base[dot+1:])
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
