package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Example returns the three-segment preview manifest used by `init`.
func Example() *Manifest {
	showSubtitles := true
	return &Manifest{
		FPS: 30,
		Segments: []Segment{
			{
				Media:    "example/gameplay.mp4",
				Duration: 3,
				Subtitle: "So I found a bug in my game...",
			},
			{
				Media:    "example/bug-moment.mp4",
				Duration: 4,
				Subtitle: "Look at this!",
			},
			{
				Media:    "example/result.mp4",
				Duration: 3,
				Subtitle: "I think I'm keeping it.",
			},
		},
		Style: &Style{
			SubtitlePosition: PositionBottom,
			ShowSubtitles:    &showSubtitles,
			AccentColor:      "#6366f1",
		},
		Upload: &Upload{
			Caption:   "Found a bug, decided to keep it\n\n#gamedev #indiedev",
			Platforms: []string{"tiktok", "x"},
		},
	}
}

// GenerateManifestPath creates a timestamped manifest filename in dir
func GenerateManifestPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("manifest_%s.json", timestamp))
}

// FindLatest finds the most recently modified manifest (.json/.yaml/.yml) in dir
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	if len(found) == 0 {
		return "", fmt.Errorf("no manifest files found in %s", dir)
	}

	// Newest first
	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})

	return found[0].path, nil
}
