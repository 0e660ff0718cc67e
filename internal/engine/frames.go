package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseFrames turns "0,45,90" or "10-20" style lists into sorted, unique
// frame numbers. When list is empty, every-th frame of [0,total) is used;
// every <= 0 falls back to one frame per segment start.
func ParseFrames(list string, every, total int, starts []int) ([]int, error) {
	var frames []int

	switch {
	case strings.TrimSpace(list) != "":
		for _, part := range strings.Split(list, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			first, last, isRange := strings.Cut(part, "-")
			a, err := strconv.Atoi(strings.TrimSpace(first))
			if err != nil {
				return nil, fmt.Errorf("bad frame %q", part)
			}
			if !isRange {
				frames = append(frames, a)
				continue
			}
			b, err := strconv.Atoi(strings.TrimSpace(last))
			if err != nil || b < a {
				return nil, fmt.Errorf("bad frame range %q", part)
			}
			for f := a; f <= b; f++ {
				frames = append(frames, f)
			}
		}
	case every > 0:
		for f := 0; f < total; f += every {
			frames = append(frames, f)
		}
	default:
		frames = append(frames, starts...)
	}

	frames = lo.Uniq(frames)
	sort.Ints(frames)
	return frames, nil
}
