package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ivlev/devlog2video/internal/system"
	"github.com/ivlev/devlog2video/internal/timeline"
)

// AssetIssue is a problem found while checking a manifest's assets.
type AssetIssue struct {
	Segment int
	Asset   string
	Problem string
}

func (a AssetIssue) String() string {
	return fmt.Sprintf("segment %d: %s: %s", a.Segment, a.Asset, a.Problem)
}

// Inspect prints the timeline layout.
func (p *Project) Inspect() {
	tl := p.Timeline
	p.printf("--- [DEVLOG2VIDEO: TIMELINE] ---\n")
	p.printf("[*] Манифест: %s\n", p.Config.ManifestPath)
	p.printf("[*] Разрешение: %dx%d @ %g FPS\n", tl.Width, tl.Height, tl.FPS)
	p.printf("[*] Сегментов: %d | Кадров: %d | Длительность: %.2fs\n", len(tl.Entries), tl.TotalDurationInFrames(), tl.Seconds())
	p.printf("--------------------------------\n")

	for _, e := range tl.Entries {
		seg := e.Segment
		kinds := lo.Map(tl.Kinds(e.Index), func(k timeline.LayerKind, _ int) string { return string(k) })
		p.printf("#%d [%d, %d) %s\n", e.Index, e.StartFrame, e.EndFrame(), seg.Media)
		p.printf("    transition=%s kenBurns=%s text=%s layers=%s\n",
			seg.TransitionType(), seg.KenBurnsType(), seg.TextAnimationType(), strings.Join(kinds, ","))
		for _, l := range tl.LayersFor(e.Index) {
			if l.Kind == timeline.KindSfx {
				p.printf("    sfx %s [%d, %d) volume=%.2f\n", l.Asset, l.From, l.To(), l.Volume)
			}
		}
	}

	if tl.Upload != nil {
		p.printf("[*] Публикация: %s\n", strings.Join(tl.Upload.Platforms, ", "))
	}
}

// CheckAssets reports media, voice and sfx files missing under the asset
// root, and voice tracks longer than their segment when ffprobe is usable.
func (p *Project) CheckAssets(ctx context.Context, probe bool) []AssetIssue {
	var issues []AssetIssue
	ffprobe := system.FFprobeFor(p.Config.FFmpegPath)

	for _, e := range p.Timeline.Entries {
		seg := e.Segment
		for _, asset := range []string{seg.Media, seg.Voice, seg.Sfx} {
			if asset == "" {
				continue
			}
			if !p.Resolver.Exists(asset) {
				issues = append(issues, AssetIssue{Segment: e.Index, Asset: asset, Problem: "not found under " + p.Config.AssetRoot})
			}
		}

		if !probe || seg.Voice == "" || !p.Resolver.Exists(seg.Voice) {
			continue
		}
		path, _ := p.Resolver.Resolve(seg.Voice)
		dur, err := system.ProbeDuration(ctx, ffprobe, path)
		if err != nil {
			p.Logger.Debug("probe failed", zap.String("asset", seg.Voice), zap.Error(err))
			continue
		}
		if dur > seg.DurationSeconds() {
			issues = append(issues, AssetIssue{
				Segment: e.Index,
				Asset:   seg.Voice,
				Problem: fmt.Sprintf("voice is %.2fs, segment is %.2fs", dur, seg.DurationSeconds()),
			})
		}
	}

	for _, is := range issues {
		p.Logger.Warn("asset", zap.Int("segment", is.Segment), zap.String("asset", is.Asset), zap.String("problem", is.Problem))
	}
	return issues
}
