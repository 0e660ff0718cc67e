package api

import (
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
	Session string `json:"session"`
}

type TimelineResponse struct {
	*timeline.Timeline
	TotalDurationInFrames int     `json:"totalDurationInFrames"`
	Seconds               float64 `json:"seconds"`
}

func TimelineToResponse(tl *timeline.Timeline) TimelineResponse {
	return TimelineResponse{
		Timeline:              tl,
		TotalDurationInFrames: tl.TotalDurationInFrames(),
		Seconds:               tl.Seconds(),
	}
}

// UploadResponse wraps the upload block so an absent one still encodes as
// an object.
type UploadResponse struct {
	Upload *manifest.Upload `json:"upload"`
}
