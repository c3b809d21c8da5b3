//go:build docsgen_api
// +build docsgen_api

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/traingate/traingate/internal/api"
	"github.com/traingate/traingate/internal/domain"
)

// stubRegistry provides a stub implementation for documentation generation.
type stubRegistry struct{}

func (s *stubRegistry) Register(string, string) error  { return nil }
func (s *stubRegistry) Deregister(string) error        { return nil }
func (s *stubRegistry) Resolve(string) (string, error) { return "", nil }
func (s *stubRegistry) List() []domain.ServiceEntry    { return nil }

// stubMonitor provides a stub implementation for documentation generation.
type stubMonitor struct{}

func (s *stubMonitor) Status(string) (domain.ServiceHealth, error) {
	return domain.ServiceHealth{}, nil
}
func (s *stubMonitor) List() []domain.ServiceHealth { return nil }
func (s *stubMonitor) Track(string)                 {}
func (s *stubMonitor) Forget(string)                {}

func (s *stubMonitor) Update(string, domain.HealthStatus, *time.Duration, string) error {
	return nil
}

// stubErrorLog provides a stub implementation for documentation generation.
type stubErrorLog struct{}

func (s *stubErrorLog) Record(string, string, domain.FailureKind, int, string) {}
func (s *stubErrorLog) ListAll() map[string][]domain.ErrorRecord               { return nil }
func (s *stubErrorLog) ListFor(string) []domain.ErrorRecord                    { return nil }

// stubForwarder provides a stub implementation for documentation generation.
type stubForwarder struct{}

func (s *stubForwarder) Forward(context.Context, domain.ProxyRequest) (domain.ProxyResult, error) {
	return domain.ProxyResult{}, nil
}

// main generates the OpenAPI specification for the traingate API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "traingate.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the daemon).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Create Huma config and router (same as the daemon).
	config := huma.DefaultConfig("traingate docs", api.APIVersion)
	router := humachi.New(mux, config)

	// Register routes using stub dependencies.
	// The OpenAPI spec generation only needs the route definitions, not the actual handlers.
	apiPathPrefix, err := api.RegisterRoutes(router, &stubRegistry{}, &stubMonitor{}, &stubErrorLog{}, &stubForwarder{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	// Get the OpenAPI spec as YAML.
	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	// Ensure the docs directory exists.
	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	// Write the YAML to the output file.
	if err := os.WriteFile(outputPath, yamlBytes, 0o644); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
