package scales

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ratingsdesk/quorum/pkg/handlers"
	"github.com/ratingsdesk/quorum/pkg/routes"
)

// Handler provides HTTP endpoints for rating-scale reference data.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "scales"),
	}
}

// Routes returns the route group definition for scale endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/scales",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/classes", Handler: h.Classes},
			{Method: "GET", Pattern: "/symbols", Handler: h.Symbols},
			{Method: "GET", Pattern: "/options", Handler: h.Options},
		},
	}
}

// Classes returns rating-class catalog entries matching the search query.
func (h *Handler) Classes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	classes, err := h.sys.Classes(r.Context(), r.URL.Query().Get("search"), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, classes)
}

// Symbols returns the permissible symbols for the requested scale.
func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	symbols, err := h.sys.Symbols(
		r.Context(),
		q.Get("scale_code"),
		q.Get("strategy"),
		q.Get("domicile_code"),
	)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, symbols)
}

// Options returns the static dropdown option sets.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Options())
}
