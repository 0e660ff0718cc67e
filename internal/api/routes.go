package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/manifest", manifestHandler(cfg))
		r.Get("/upload", uploadHandler(cfg))
		r.Get("/timeline", timelineHandler(cfg))
		r.Get("/frames/{frame}", frameHandler(cfg))
		r.Get("/frames/{frame}/preview.png", previewHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Project.Config.BuildVersion,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
			Session: cfg.Project.SessionID,
		})
	}
}

func manifestHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Project.Manifest)
	}
}

func uploadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, UploadResponse{Upload: cfg.Project.Manifest.Upload})
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, TimelineToResponse(cfg.Project.Timeline))
	}
}

func frameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, ok := parseFrame(w, r, cfg)
		if !ok {
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Project.Frame(frame))
	}
}

func previewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, ok := parseFrame(w, r, cfg)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := cfg.Project.RenderPNG(r.Context(), &buf, frame); err != nil {
			cfg.Logger.Error("preview failed", zap.Int("frame", frame), zap.Error(err))
			WriteError(w, http.StatusInternalServerError, "failed to render preview", "INTERNAL_ERROR")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

// parseFrame reads {frame} and writes the error response itself when the
// value is unusable.
func parseFrame(w http.ResponseWriter, r *http.Request, cfg ServerConfig) (int, bool) {
	raw := chi.URLParam(r, "frame")
	frame, err := strconv.Atoi(raw)
	if err != nil || frame < 0 {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid frame %q", raw), "INVALID_FRAME")
		return 0, false
	}
	total := cfg.Project.Timeline.TotalDurationInFrames()
	if frame >= total {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("frame %d outside [0, %d)", frame, total), "FRAME_OUT_OF_RANGE")
		return 0, false
	}
	return frame, true
}
