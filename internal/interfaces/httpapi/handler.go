package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

// DashboardStreamer upgrades a request into a live dashboard subscription.
type DashboardStreamer interface {
	ServeGame(w http.ResponseWriter, r *http.Request, gameID int64, current *livegame.Dashboard) error
}

type HandlerDeps struct {
	Live       *usecase.LiveDashboardService
	Counters   *usecase.CounterService
	SprayChart *usecase.SprayChartService
	Events     *usecase.GameEventService
	// Archive and Stream are optional; their routes answer 503 when unset.
	Archive *usecase.SnapshotArchive
	Stream  DashboardStreamer
	Logger  *logging.Logger
}

type Handler struct {
	live       *usecase.LiveDashboardService
	counters   *usecase.CounterService
	sprayChart *usecase.SprayChartService
	events     *usecase.GameEventService
	archive    *usecase.SnapshotArchive
	stream     DashboardStreamer
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		live:       deps.Live,
		counters:   deps.Counters,
		sprayChart: deps.SprayChart,
		events:     deps.Events,
		archive:    deps.Archive,
		stream:     deps.Stream,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON rejects unknown fields. An empty body is accepted only when
// allowEmpty is set and leaves dst untouched.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
