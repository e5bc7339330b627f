package http

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

const maxEventNameLength = 64

var eventNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// InteractionHandler exposes the current scope's interaction snapshot and
// accepts UI events from the dashboard front end.
type InteractionHandler struct {
	recorder     ports.InteractionRecorder
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewInteractionHandler(recorder ports.InteractionRecorder, errorHandler *ErrorHandler, logger *slog.Logger) *InteractionHandler {
	return &InteractionHandler{
		recorder:     recorder,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "interactions"),
	}
}

func (h *InteractionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleSnapshot)
	r.Post("/", h.HandleTrack)
}

type TrackInteractionRequest struct {
	Event string         `json:"event"`
	Meta  map[string]any `json:"meta"`
}

func (r *TrackInteractionRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("event", r.Event).
		MaxLength("event", r.Event, maxEventNameLength).
		Matches("event", r.Event, eventNamePattern, "Must be lower_snake_case")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleSnapshot handles GET /interactions
func (h *InteractionHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.recorder.Snapshot(r.Context()))
}

// HandleTrack handles POST /interactions
func (h *InteractionHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[TrackInteractionRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.recorder.Track(r.Context(), req.Event, req.Meta)
	WriteAccepted(w, "tracked")
}
