package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/syncservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *syncservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *syncservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Sync handles POST /api/sync.
//
//	@Summary		Publish a full hierarchy snapshot
//	@Tags			sync
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	SyncAck
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	ack, err := h.svc.Publish(r.Context(), raw)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedPayload) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("publish failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SyncAck{
		Status:     "ok",
		Checksum:   ack.Checksum,
		NodeCount:  ack.NodeCount,
		ReceivedAt: ack.ReceivedAt,
	})
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the current snapshot as JSON
//	@Tags			tree
//	@Produce		json
//	@Success		200	{object}	scene.Snapshot
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Current())
}

// Status handles GET /api/status.
//
//	@Summary		Get publisher connection status
//	@Tags			status
//	@Produce		json
//	@Success		200	{object}	Status
//	@Security		BearerAuth
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// Render handles GET /api/render.
//
//	@Summary		Get the canonical tree-text rendering
//	@Tags			tree
//	@Produce		plain
//	@Success		200	{string}	string
//	@Security		BearerAuth
//	@Router			/render [get]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, h.svc.RenderText())
}

// Search handles GET /api/search.
//
//	@Summary		Substring search over node names and dotted paths
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: h.svc.Search(q)})
}

// History handles GET /api/history.
//
//	@Summary		List recent publish events
//	@Tags			sync
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.History(r.Context(), limit)
	if err != nil {
		slog.Error("history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}
