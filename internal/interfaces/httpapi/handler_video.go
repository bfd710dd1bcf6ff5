package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/video"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

type videoDTO struct {
	ID           string `json:"id"`
	StartSeconds int    `json:"start_seconds"`
	EmbedURL     string `json:"embed_url"`
	WatchURL     string `json:"watch_url"`
}

func (h *Handler) ParseVideo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ParseVideo")
	defer span.End()

	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		writeError(ctx, w, fmt.Errorf("%w: url query parameter is required", usecase.ErrInvalidInput))
		return
	}
	ref, err := video.Parse(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, videoDTO{
		ID:           ref.ID,
		StartSeconds: ref.StartSeconds,
		EmbedURL:     ref.EmbedURL(),
		WatchURL:     ref.WatchURL(),
	})
}
