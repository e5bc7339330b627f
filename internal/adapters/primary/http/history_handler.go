package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-sync/internal/core/services"
)

// SearchQueryParam carries the history search term.
const SearchQueryParam = "q"

// HistoryReader serves the searchable history table and its export.
type HistoryReader interface {
	RecordView(ctx context.Context)
	Search(ctx context.Context, term string) *services.HistoryPage
	Export(ctx context.Context, term string) (*services.HistoryExport, error)
}

type HistoryHandler struct {
	history      HistoryReader
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewHistoryHandler(history HistoryReader, errorHandler *ErrorHandler, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history:      history,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "history"),
	}
}

func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleSearch)
	r.Get("/export", h.HandleExport)
}

// HandleSearch handles GET /history?q=. A request without the parameter
// is a page load and counts as a history view.
func (h *HistoryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has(SearchQueryParam) {
		h.history.RecordView(r.Context())
	}

	WriteSuccess(w, h.history.Search(r.Context(), query.Get(SearchQueryParam)))
}

// HandleExport handles GET /history/export?q=
func (h *HistoryHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.history.Export(r.Context(), r.URL.Query().Get(SearchQueryParam))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "history exported", "rows", export.Rows, "bytes", len(export.Content))
	WriteAttachment(w, export.FileName, export.ContentType, export.Content)
}
