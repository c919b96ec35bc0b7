package api_test

import (
	"testing"

	"github.com/ratingsdesk/quorum/internal/api"
	"github.com/ratingsdesk/quorum/internal/config"
	"github.com/ratingsdesk/quorum/internal/infrastructure"
	"github.com/ratingsdesk/quorum/pkg/database"
	"github.com/ratingsdesk/quorum/pkg/middleware"
	"github.com/ratingsdesk/quorum/pkg/pagination"
	"github.com/ratingsdesk/quorum/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=quorumstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/quorumstore;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "quorum",
			User:            "quorum",
			Password:        "quorum",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "votes",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "1MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	if domain.Entities == nil {
		t.Error("entities system is nil")
	}
	if domain.Scales == nil {
		t.Error("scales system is nil")
	}
	if domain.Votes == nil {
		t.Error("votes system is nil")
	}
}

func TestMaxBodySizeBytes(t *testing.T) {
	cfg := validConfig()
	if got := cfg.API.MaxBodySizeBytes(); got != 1024*1024 {
		t.Errorf("MaxBodySizeBytes() = %d, want 1MB", got)
	}
}
