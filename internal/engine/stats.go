package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/devlog2video/internal/system"
)

// BenchmarkLog is appended to after every run when stats are enabled.
const BenchmarkLog = "benchmark.log"

type Stats struct {
	Session string
	Mode    string
	Frames  int
	Workers int
	Start   time.Time
	Elapsed time.Duration
}

func (p *Project) newStats(mode string, frames int) *Stats {
	return &Stats{
		Session: p.SessionID,
		Mode:    mode,
		Frames:  frames,
		Workers: p.workers(),
		Start:   time.Now(),
	}
}

func (s *Stats) finish() {
	s.Elapsed = time.Since(s.Start)
}

// FPS is the effective evaluation rate.
func (s *Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// Report prints the performance block and appends a line to the benchmark
// log next to the output directory.
func (p *Project) Report(s *Stats) {
	if s == nil || !p.Config.ShowStats {
		return
	}
	p.outMu.Lock()
	WriteReport(p.Out, s, p.Config.BuildVersion)
	p.outMu.Unlock()

	allocated, reused := system.PoolStats()
	logEntry := fmt.Sprintf("[%s] Build: %s | Session: %s | Mode: %s | Manifest: %s | Frames: %d | Workers: %d | Total: %.2fs | FPS: %.2f | Buffers: %d/%d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		s.Session,
		s.Mode,
		filepath.Base(p.Config.ManifestPath),
		s.Frames,
		s.Workers,
		s.Elapsed.Seconds(),
		s.FPS(),
		allocated, reused,
	)

	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, BenchmarkLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		p.printf("[!] Не удалось записать %s: %v\n", BenchmarkLog, err)
	}
}

// WriteReport prints the performance block.
func WriteReport(w io.Writer, s *Stats, build string) {
	fmt.Fprintf(w,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Session: %s\n"+
			"Mode: %s\n"+
			"Frames: %d (workers: %d)\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		build, s.Session, s.Mode, s.Frames, s.Workers, s.Elapsed.Seconds(), s.FPS(),
	)
}
