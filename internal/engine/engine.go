package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/preview"
	"github.com/ivlev/devlog2video/internal/renderer"
	"github.com/ivlev/devlog2video/internal/source"
	"github.com/ivlev/devlog2video/internal/system"
	"github.com/ivlev/devlog2video/internal/timeline"
)

// ErrFrameRange is returned for frame ranges outside the timeline.
var ErrFrameRange = errors.New("frame range outside timeline")

// batchPerWorker bounds how many frame states are held before they are
// flushed in order.
const batchPerWorker = 16

type Project struct {
	Config   *config.Config
	Manifest *manifest.Manifest
	Timeline *timeline.Timeline
	Resolver *source.Resolver
	Raster   *preview.Rasterizer
	Logger   *zap.Logger
	// Out receives the human-readable progress lines.
	Out       io.Writer
	SessionID string

	outMu sync.Mutex
}

// NewProject builds the timeline for m with the canvas and fps override
// from cfg.
func NewProject(cfg *config.Config, m *manifest.Manifest, logger *zap.Logger) *Project {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FPS > 0 {
		m.FPS = cfg.FPS
	}

	resolver := source.NewResolver(cfg.AssetRoot, cfg.FFmpegPath)
	return &Project{
		Config:    cfg,
		Manifest:  m,
		Timeline:  timeline.Build(m, cfg.Width, cfg.Height),
		Resolver:  resolver,
		Raster:    preview.New(resolver, logger),
		Logger:    logger,
		Out:       os.Stdout,
		SessionID: uuid.NewString(),
	}
}

// Load reads and validates the manifest named by cfg.ManifestPath.
// Unknown style values are only warned about.
func Load(cfg *config.Config, logger *zap.Logger) (*Project, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := manifest.ReadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", cfg.ManifestPath, err)
	}
	for _, w := range m.Lint() {
		logger.Warn("manifest", zap.String("issue", w))
	}
	return NewProject(cfg, m, logger), nil
}

// Close releases cached media sources.
func (p *Project) Close() error {
	return p.Resolver.Close()
}

func (p *Project) workers() int {
	return system.RecommendedWorkers(p.Config.Workers)
}

// Frame evaluates a single frame.
func (p *Project) Frame(frame int) renderer.FrameState {
	return renderer.RenderFrame(p.Timeline, frame)
}

// clampRange turns [from, to) into a valid range; to <= 0 means the end.
func (p *Project) clampRange(from, to int) (int, int, error) {
	total := p.Timeline.TotalDurationInFrames()
	if to <= 0 || to > total {
		to = total
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return 0, 0, fmt.Errorf("[%d, %d) of %d frames: %w", from, to, total, ErrFrameRange)
	}
	return from, to, nil
}

// WriteStates evaluates frames [from, to) in parallel and writes one JSON
// object per line to w, in frame order.
func (p *Project) WriteStates(ctx context.Context, w io.Writer, from, to int) (*Stats, error) {
	from, to, err := p.clampRange(from, to)
	if err != nil {
		return nil, err
	}

	stats := p.newStats("states", to-from)
	workers := p.workers()
	batch := workers * batchPerWorker
	bw := bufio.NewWriter(w)

	for start := from; start < to; start += batch {
		end := min(start+batch, to)
		lines := make([][]byte, end-start)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for f := start; f < end; f++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				data, err := json.Marshal(p.Frame(f))
				if err != nil {
					return fmt.Errorf("frame %d: %w", f, err)
				}
				lines[f-start] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, line := range lines {
			if _, err := bw.Write(line); err != nil {
				return nil, err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return nil, err
			}
		}
		p.Logger.Debug("states batch", zap.Int("from", start), zap.Int("to", end))
	}

	if err := bw.Flush(); err != nil {
		return nil, err
	}
	stats.finish()
	return stats, nil
}

// WriteStatesFile is WriteStates into a file.
func (p *Project) WriteStatesFile(ctx context.Context, path string, from, to int) (*Stats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	stats, err := p.WriteStates(ctx, f, from, to)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return stats, err
}

// RenderPreviews rasterises frames into outDir as PNG files. A frame whose
// media cannot be loaded still gets a placeholder image.
func (p *Project) RenderPreviews(ctx context.Context, frames []int, outDir string) (*Stats, []string, error) {
	total := p.Timeline.TotalDurationInFrames()
	for _, f := range frames {
		if f < 0 || f >= total {
			return nil, nil, fmt.Errorf("frame %d of %d: %w", f, total, ErrFrameRange)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	system.InitResourceLimits(2048)

	stats := p.newStats("preview", len(frames))
	paths := make([]string, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, f := range frames {
		g.Go(func() error {
			img := p.Raster.Render(gctx, p.Frame(f), p.Timeline.FPS)
			defer preview.Release(img)

			path := filepath.Join(outDir, preview.FrameFileName(f))
			if err := preview.WritePNG(path, img); err != nil {
				return fmt.Errorf("frame %d: %w", f, err)
			}
			paths[i] = path
			p.printf("[>] Готово: кадр %d (%d/%d)\n", f, i+1, len(frames))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats.finish()
	return stats, paths, nil
}

// RenderPNG rasterises one frame into w.
func (p *Project) RenderPNG(ctx context.Context, w io.Writer, frame int) error {
	img := p.Raster.Render(ctx, p.Frame(frame), p.Timeline.FPS)
	defer preview.Release(img)
	return preview.EncodePNG(w, img)
}

func (p *Project) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.Out, format, args...)
}
