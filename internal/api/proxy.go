package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
)

// ProxyRequest represents the incoming request to forward a call to a backend service.
// Data is passed through to the backend unmodified.
type ProxyRequest struct {
	Body struct {
		TargetService string            `doc:"Logical name of the target service" example:"agent_service" json:"target_service" required:"true"`
		Endpoint      string            `doc:"Endpoint path on the target service" example:"agents"        json:"endpoint"       required:"true"`
		Method        string            `doc:"HTTP method to use"                  example:"GET"           json:"method"         required:"true"`
		Data          json.RawMessage   `doc:"Opaque JSON payload"                                         json:"data,omitempty"`
		Headers       map[string]string `doc:"Headers forwarded to the backend"                            json:"headers,omitempty"`
	}
}

// ProxyResult carries the backend's response verbatim.
type ProxyResult struct {
	Service    string            `json:"service"`
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Data       json.RawMessage   `json:"data"`
}

// ProxyResponse represents the wrapped API response for a proxied call.
type ProxyResponse struct {
	Body ProxyResult
}

// DomainProxyResult is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainProxyResult domain.ProxyResult

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainProxyResult) ToAPIType() (ProxyResult, error) {
	return ProxyResult{
		Service:    d.Service,
		StatusCode: d.StatusCode,
		Headers:    d.Headers,
		Data:       d.Body,
	}, nil
}

// RegisterProxyRoutes sets up the request-proxy API endpoint route.
func RegisterProxyRoutes(routerAPI huma.API, forwarder contracts.RequestForwarder, apiPathPrefix string) {
	proxyAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Proxy"}

	huma.Register(
		proxyAPI,
		huma.Operation{
			OperationID: "proxyRequest",
			Method:      http.MethodPost,
			Summary:     "Forward a request to a registered service",
			Tags:        tags,
		},
		func(ctx context.Context, input *ProxyRequest) (*ProxyResponse, error) {
			return handleProxy(ctx, forwarder, input)
		},
	)
}

// handleProxy forwards the logical request and returns the backend's response
// verbatim. Backend error statuses are part of the result, not gateway faults.
func handleProxy(ctx context.Context, forwarder contracts.RequestForwarder, input *ProxyRequest) (*ProxyResponse, error) {
	result, err := forwarder.Forward(ctx, domain.ProxyRequest{
		TargetService: input.Body.TargetService,
		Endpoint:      input.Body.Endpoint,
		Method:        input.Body.Method,
		Data:          input.Body.Data,
		Headers:       input.Body.Headers,
	})
	if err != nil {
		return nil, err
	}

	data, err := DomainProxyResult(result).ToAPIType()
	if err != nil {
		return nil, err
	}

	resp := &ProxyResponse{}
	resp.Body = data

	return resp, nil
}
