package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/traingate/traingate/internal/contracts"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	router huma.API,
	registry contracts.ServiceRegistry,
	monitor contracts.HealthMonitor,
	errorLog contracts.ErrorLog,
	forwarder contracts.RequestForwarder,
) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return "", fmt.Errorf("registry cannot be nil")
	}
	if monitor == nil || reflect.ValueOf(monitor).IsNil() {
		return "", fmt.Errorf("health monitor cannot be nil")
	}
	if errorLog == nil || reflect.ValueOf(errorLog).IsNil() {
		return "", fmt.Errorf("error log cannot be nil")
	}
	if forwarder == nil || reflect.ValueOf(forwarder).IsNil() {
		return "", fmt.Errorf("forwarder cannot be nil")
	}

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterRegistryRoutes(versionedGroup, registry, monitor, "/registry")
	RegisterHealthRoutes(versionedGroup, monitor, "/health")
	RegisterErrorRoutes(versionedGroup, errorLog, registry, "/errors")
	RegisterProxyRoutes(versionedGroup, forwarder, "/proxy")

	return apiPathPrefix, nil
}
