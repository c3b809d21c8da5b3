package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
)

// ServiceEntry describes a registered backend service at the API boundary.
type ServiceEntry struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	RegisteredAt time.Time `json:"registered_at"`
}

// DomainServiceEntry is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServiceEntry domain.ServiceEntry

// ServicesResponse is the response for GET /registry.
type ServicesResponse struct {
	Body struct {
		Services []ServiceEntry `doc:"Registered services in registration order" json:"services"`
	}
}

// RegisterServiceRequest represents the incoming request to register a service.
type RegisterServiceRequest struct {
	Name string `doc:"Logical name of the service"    example:"agent_service"              path:"name"`
	URL  string `doc:"Base address of the service" example:"http://agent_service:8000" query:"url" required:"true"`
}

// RegisterServiceResponse represents the wrapped API response for a registration.
type RegisterServiceResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// DeregisterServiceRequest represents the incoming request to deregister a service.
type DeregisterServiceRequest struct {
	Name string `doc:"Logical name of the service" example:"agent_service" path:"name"`
}

// DeregisterServiceResponse represents the wrapped API response for a deregistration.
type DeregisterServiceResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServiceEntry) ToAPIType() (ServiceEntry, error) {
	return ServiceEntry{
		Name:         d.Name,
		URL:          d.BaseURL,
		RegisteredAt: d.RegisteredAt,
	}, nil
}

// RegisterRegistryRoutes sets up service-registry API endpoint routes.
// Registration and deregistration keep the health monitor's tracked set in
// sync so changes are visible before the next probing cycle.
func RegisterRegistryRoutes(
	routerAPI huma.API,
	registry contracts.ServiceRegistry,
	monitor contracts.HealthMonitor,
	apiPathPrefix string,
) {
	registryAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Registry"}

	huma.Register(
		registryAPI,
		huma.Operation{
			OperationID: "listServices",
			Method:      http.MethodGet,
			Summary:     "List all registered services",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServicesResponse, error) {
			return handleListServices(registry)
		},
	)

	huma.Register(
		registryAPI,
		huma.Operation{
			OperationID: "registerService",
			Method:      http.MethodPost,
			Path:        "/{name}",
			Summary:     "Register a service or update its address",
			Tags:        tags,
		},
		func(ctx context.Context, input *RegisterServiceRequest) (*RegisterServiceResponse, error) {
			return handleRegisterService(registry, monitor, input.Name, input.URL)
		},
	)

	huma.Register(
		registryAPI,
		huma.Operation{
			OperationID: "deregisterService",
			Method:      http.MethodDelete,
			Path:        "/{name}",
			Summary:     "Deregister a service",
			Tags:        tags,
		},
		func(ctx context.Context, input *DeregisterServiceRequest) (*DeregisterServiceResponse, error) {
			return handleDeregisterService(registry, monitor, input.Name)
		},
	)
}

// handleListServices returns all registered services in registration order.
func handleListServices(registry contracts.ServiceRegistry) (*ServicesResponse, error) {
	entries := registry.List()

	apiEntries := make([]ServiceEntry, 0, len(entries))
	for _, entry := range entries {
		data, err := DomainServiceEntry(entry).ToAPIType()
		if err != nil {
			return nil, err
		}
		apiEntries = append(apiEntries, data)
	}

	resp := &ServicesResponse{}
	resp.Body.Services = apiEntries

	return resp, nil
}

// handleRegisterService inserts or overwrites a registry entry and starts
// health tracking for it.
func handleRegisterService(
	registry contracts.ServiceRegistry,
	monitor contracts.HealthMonitor,
	name string,
	url string,
) (*RegisterServiceResponse, error) {
	if err := registry.Register(name, url); err != nil {
		return nil, err
	}

	monitor.Track(name)

	resp := &RegisterServiceResponse{}
	resp.Body.Message = fmt.Sprintf("Service '%s' registered at %s", name, url)

	return resp, nil
}

// handleDeregisterService removes a registry entry and its health record.
// Historical error records are deliberately retained for audit purposes.
func handleDeregisterService(
	registry contracts.ServiceRegistry,
	monitor contracts.HealthMonitor,
	name string,
) (*DeregisterServiceResponse, error) {
	if err := registry.Deregister(name); err != nil {
		return nil, err
	}

	monitor.Forget(name)

	resp := &DeregisterServiceResponse{}
	resp.Body.Message = fmt.Sprintf("Service '%s' deregistered", name)

	return resp, nil
}
