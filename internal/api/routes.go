package api

import (
	"net/http"

	"github.com/ratingsdesk/quorum/internal/config"
	"github.com/ratingsdesk/quorum/pkg/openapi"
	"github.com/ratingsdesk/quorum/pkg/routes"
	"github.com/ratingsdesk/quorum/pkg/storage"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	archive := newArchiveHandler(
		runtime.Storage,
		runtime.Logger,
		storage.MaxListCap,
	)

	routes.Register(
		mux,
		domain.Entities.Handler().Routes(),
		domain.Scales.Handler().Routes(),
		domain.Votes.Handler().Routes(),
		archive.routes(),
	)

	specBytes, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
