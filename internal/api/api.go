// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/ratingsdesk/quorum/internal/config"
	"github.com/ratingsdesk/quorum/internal/infrastructure"
	"github.com/ratingsdesk/quorum/pkg/middleware"
	"github.com/ratingsdesk/quorum/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))
	m.Use(maxBody(cfg.API.MaxBodySizeBytes()))

	return m, nil
}

// maxBody caps request body size on mutating endpoints.
func maxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
