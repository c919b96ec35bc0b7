package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/ratingsdesk/quorum/pkg/formatting"
	"github.com/ratingsdesk/quorum/pkg/handlers"
	"github.com/ratingsdesk/quorum/pkg/routes"
	"github.com/ratingsdesk/quorum/pkg/storage"
)

// archiveHandler exposes the closed-vote snapshot archive for browsing and
// retrieval. Snapshots are written by the vote system at case close.
type archiveHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newArchiveHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *archiveHandler {
	return &archiveHandler{
		store:       store,
		logger:      logger.With("handler", "archive"),
		maxListSize: maxListSize,
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find},
		},
	}
}

// archiveEntry is one archived snapshot with a display-formatted size.
type archiveEntry struct {
	Key          string    `json:"key"`
	Size         string    `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type archiveListing struct {
	Entries    []archiveEntry `json:"entries"`
	NextMarker string         `json:"next_marker,omitempty"`
}

func (h *archiveHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusBadRequest, err,
		)
		return
	}

	result, err := h.store.List(
		r.Context(),
		prefix,
		marker,
		maxResults,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError, err,
		)
		return
	}

	listing := archiveListing{
		Entries:    make([]archiveEntry, 0, len(result.Blobs)),
		NextMarker: result.NextMarker,
	}
	for _, blob := range result.Blobs {
		listing.Entries = append(listing.Entries, archiveEntry{
			Key:          blob.Key,
			Size:         formatting.FormatBytes(blob.ContentLength, 1),
			LastModified: blob.LastModified,
		})
	}

	handlers.RespondJSON(w, http.StatusOK, listing)
}

func (h *archiveHandler) find(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)

	if result.ContentLength > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.ContentLength, 10),
		)
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
