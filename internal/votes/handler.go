package votes

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/internal/table"
	"github.com/ratingsdesk/quorum/pkg/handlers"
	"github.com/ratingsdesk/quorum/pkg/routes"
)

// Handler provides HTTP endpoints for vote sessions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "votes"),
	}
}

// Routes returns the route group definition for vote session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/votes",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.State},
			{Method: "GET", Pattern: "/{id}/views/{view}", Handler: h.View},
			{Method: "POST", Pattern: "/{id}/intents", Handler: h.Apply},
			{Method: "GET", Pattern: "/{id}/payload", Handler: h.Payload},
			{Method: "POST", Pattern: "/{id}/save", Handler: h.Save},
			{Method: "POST", Pattern: "/{id}/close", Handler: h.Close},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

type createRequest struct {
	CaseID          string `json:"case_id"`
	CommitteeNumber int    `json:"committee_number"`
}

// Create opens a live session for a committee case.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[createRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.sys.Create(r.Context(), req.CaseID, req.CommitteeNumber)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, state)
}

// State returns the current session state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	state, err := h.sys.State(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, state)
}

// View returns one view's rows.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := table.ParseView(r.PathValue("view"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rows, err := h.sys.View(id, view)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rows)
}

// Apply runs one intent against the session.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	intent, err := handlers.DecodeJSON[table.Intent](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	effects, err := h.sys.Apply(r.Context(), id, intent)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, effects)
}

// Payload returns the save contract for the session's current state.
func (h *Handler) Payload(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	payload, err := h.sys.Payload(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, payload)
}

// Save persists the session without closing the case.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Save(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Close finalizes, archives, and closes the case, then discards the session.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Close(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete discards a session without saving.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}
