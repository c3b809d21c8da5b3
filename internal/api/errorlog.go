package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

// ErrorRecord describes one failed backend interaction at the API boundary.
type ErrorRecord struct {
	Service    string    `json:"service"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Kind       string    `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
}

// DomainErrorRecord is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainErrorRecord domain.ErrorRecord

// ErrorsResponse is the response for GET /errors.
type ErrorsResponse struct {
	Body struct {
		Errors map[string][]ErrorRecord `doc:"Recorded errors grouped by service name" json:"errors"`
	}
}

// ServiceErrorsRequest represents the incoming request for one service's error history.
type ServiceErrorsRequest struct {
	Name string `doc:"Name of the service to fetch errors for" example:"agent_service" path:"name"`
}

// ServiceErrorsResponse represents the wrapped API response for one service's error history.
type ServiceErrorsResponse struct {
	Body struct {
		Errors []ErrorRecord `doc:"Recorded errors, oldest first" json:"errors"`
	}
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainErrorRecord) ToAPIType() (ErrorRecord, error) {
	return ErrorRecord{
		Service:    d.ServiceName,
		Timestamp:  d.Timestamp,
		Operation:  d.Operation,
		Kind:       string(d.Kind),
		StatusCode: d.StatusCode,
		Message:    d.Message,
	}, nil
}

// RegisterErrorRoutes sets up error-history API endpoint routes.
func RegisterErrorRoutes(
	routerAPI huma.API,
	errorLog contracts.ErrorLog,
	registry contracts.ServiceRegistry,
	apiPathPrefix string,
) {
	errorsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Errors"}

	huma.Register(
		errorsAPI,
		huma.Operation{
			OperationID: "listErrors",
			Method:      http.MethodGet,
			Summary:     "List recorded errors for all services",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ErrorsResponse, error) {
			return handleListErrors(errorLog)
		},
	)

	huma.Register(
		errorsAPI,
		huma.Operation{
			OperationID: "getServiceErrors",
			Method:      http.MethodGet,
			Path:        "/{name}",
			Summary:     "List recorded errors for one service",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServiceErrorsRequest) (*ServiceErrorsResponse, error) {
			return handleServiceErrors(errorLog, registry, input.Name)
		},
	)
}

// handleListErrors returns all recorded errors grouped by service.
func handleListErrors(errorLog contracts.ErrorLog) (*ErrorsResponse, error) {
	all := errorLog.ListAll()

	apiErrors := make(map[string][]ErrorRecord, len(all))
	for name, records := range all {
		converted := make([]ErrorRecord, 0, len(records))
		for _, record := range records {
			data, err := DomainErrorRecord(record).ToAPIType()
			if err != nil {
				return nil, err
			}
			converted = append(converted, data)
		}
		apiErrors[name] = converted
	}

	resp := &ErrorsResponse{}
	resp.Body.Errors = apiErrors

	return resp, nil
}

// handleServiceErrors returns the error history for one service.
// Records survive deregistration for audit purposes, so any recorded history is
// returned regardless of registry state. A name with no history is only valid
// when it is currently registered; otherwise it is reported as not found.
func handleServiceErrors(
	errorLog contracts.ErrorLog,
	registry contracts.ServiceRegistry,
	name string,
) (*ServiceErrorsResponse, error) {
	records := errorLog.ListFor(name)

	if len(records) == 0 {
		if _, err := registry.Resolve(name); err != nil {
			return nil, fmt.Errorf("%w: %s", errors.ErrServiceNotFound, name)
		}
	}

	converted := make([]ErrorRecord, 0, len(records))
	for _, record := range records {
		data, err := DomainErrorRecord(record).ToAPIType()
		if err != nil {
			return nil, err
		}
		converted = append(converted, data)
	}

	resp := &ServiceErrorsResponse{}
	resp.Body.Errors = converted

	return resp, nil
}
