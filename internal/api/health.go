package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
)

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

// DomainServiceHealth is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServiceHealth domain.ServiceHealth

// HealthStatus represents the last known availability of a backend service.
type HealthStatus string

// ServiceHealth is used to provide information about ongoing health checks that are performed on registered services.
type ServiceHealth struct {
	Name           string       `json:"name"`
	Status         HealthStatus `json:"status"`
	Latency        *string      `json:"latency,omitempty"`
	LastChecked    *time.Time   `json:"last_checked,omitempty"`
	LastSuccessful *time.Time   `json:"last_successful,omitempty"`
	Detail         string       `json:"detail,omitempty"`
}

// ServicesHealthResponse is the response for GET /health.
type ServicesHealthResponse struct {
	Body struct {
		Services []ServiceHealth `doc:"Tracked service health statuses" json:"services"`
	}
}

// ServiceHealthRequest represents the incoming request for obtaining ServiceHealth.
type ServiceHealthRequest struct {
	Name string `doc:"Name of the service to check" example:"agent_service" path:"name"`
}

// ServiceHealthResponse represents the wrapped API response for a ServiceHealth.
type ServiceHealthResponse struct {
	Body ServiceHealth
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServiceHealth) ToAPIType() (ServiceHealth, error) {
	status, err := parseHealthStatus(d.Status)
	if err != nil {
		return ServiceHealth{}, err
	}

	var latency *string
	if d.Latency != nil {
		s := d.Latency.String()
		latency = &s
	}
	return ServiceHealth{
		Name:           d.Name,
		Status:         status,
		Latency:        latency,
		LastChecked:    d.LastChecked,
		LastSuccessful: d.LastSuccessful,
		Detail:         d.Detail,
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, monitor contracts.HealthMonitor, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "listServicesHealth",
			Method:      http.MethodGet,
			Summary:     "List the health statuses for all services",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServicesHealthResponse, error) {
			return handleHealthServices(monitor)
		},
	)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getServiceHealth",
			Method:      http.MethodGet,
			Path:        "/{name}",
			Summary:     "Get the health status of a service",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServiceHealthRequest) (*ServiceHealthResponse, error) {
			return handleHealthService(monitor, input.Name)
		},
	)
}

// handleHealthServices is the handler for retrieving the current health for all registered services.
func handleHealthServices(monitor contracts.HealthMonitor) (*ServicesHealthResponse, error) {
	services := monitor.List()

	slices.SortFunc(services, func(a, b domain.ServiceHealth) int {
		return strings.Compare(a.Name, b.Name)
	})

	apiServices := make([]ServiceHealth, 0, len(services))
	for _, s := range services {
		data, err := DomainServiceHealth(s).ToAPIType()
		if err != nil {
			return nil, err
		}
		apiServices = append(apiServices, data)
	}

	resp := &ServicesHealthResponse{}
	resp.Body.Services = apiServices

	return resp, nil
}

// handleHealthService is the handler for retrieving the current health of the specified registered service.
func handleHealthService(monitor contracts.HealthMonitor, name string) (*ServiceHealthResponse, error) {
	health, err := monitor.Status(name)
	if err != nil {
		return nil, err
	}

	data, err := DomainServiceHealth(health).ToAPIType()
	if err != nil {
		return nil, err
	}

	response := ServiceHealthResponse{}
	response.Body = data

	return &response, nil
}

func parseHealthStatus(status domain.HealthStatus) (HealthStatus, error) {
	switch status {
	case domain.HealthStatusUp:
		return HealthStatusUp, nil
	case domain.HealthStatusDown:
		return HealthStatusDown, nil
	case domain.HealthStatusUnknown:
		return HealthStatusUnknown, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
