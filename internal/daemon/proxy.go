package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

// maxRecordedBody bounds how much of a backend error body is copied into an
// error record message.
const maxRecordedBody = 512

// Forwarder proxies logical requests to registered backend services.
// Each call is a single outbound attempt; retry policy belongs to the caller.
type Forwarder struct {
	logger   hclog.Logger
	registry contracts.ServiceRegistry
	tracker  contracts.HealthMonitor
	errorLog contracts.ErrorLog
	client   *http.Client
	timeout  time.Duration
	failFast bool
}

// NewForwarder creates a Forwarder over the given registry, tracker and error log.
// When failFast is enabled, calls to services whose last known status is down
// are short-circuited instead of waiting for the network timeout.
func NewForwarder(
	logger hclog.Logger,
	registry contracts.ServiceRegistry,
	tracker contracts.HealthMonitor,
	errorLog contracts.ErrorLog,
	timeout time.Duration,
	failFast bool,
) *Forwarder {
	return &Forwarder{
		logger:   logger.Named("proxy"),
		registry: registry,
		tracker:  tracker,
		errorLog: errorLog,
		client:   &http.Client{},
		timeout:  timeout,
		failFast: failFast,
	}
}

// Forward resolves the target service and forwards the request.
// Backend responses are returned verbatim regardless of their status code;
// gateway faults are returned as errors from the internal/errors taxonomy
// and recorded in the error log.
func (f *Forwarder) Forward(ctx context.Context, req domain.ProxyRequest) (domain.ProxyResult, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return domain.ProxyResult{}, fmt.Errorf("%w: unsupported method: %s", errors.ErrBadRequest, req.Method)
	}
	req.Method = method

	target := strings.TrimSpace(req.TargetService)
	operation := req.Operation()

	baseURL, err := f.registry.Resolve(target)
	if err != nil {
		f.errorLog.Record(target, operation, domain.FailureKindUnknownService, 0,
			fmt.Sprintf("service %q is not registered", target))
		return domain.ProxyResult{}, fmt.Errorf("%w: %s", errors.ErrUnknownService, target)
	}

	if f.failFast {
		if health, err := f.tracker.Status(target); err == nil && health.Status == domain.HealthStatusDown {
			f.errorLog.Record(target, operation, domain.FailureKindServiceUnavailable, 0,
				fmt.Sprintf("fail-fast: last probe failed: %s", health.Detail))
			return domain.ProxyResult{}, fmt.Errorf("%w: %s is down", errors.ErrServiceUnavailable, target)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	outReq, err := f.buildRequest(reqCtx, req, baseURL)
	if err != nil {
		return domain.ProxyResult{}, err
	}

	resp, err := f.client.Do(outReq)
	if err != nil {
		detail := "connection failed"
		if stdErrors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			detail = fmt.Sprintf("timed out after %s", f.timeout)
		}
		f.errorLog.Record(target, operation, domain.FailureKindNetworkError, 0,
			fmt.Sprintf("request to %s failed: %s", target, detail))
		return domain.ProxyResult{}, fmt.Errorf("%w: %s: %s", errors.ErrUpstreamUnreachable, target, detail)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.errorLog.Record(target, operation, domain.FailureKindNetworkError, 0,
			fmt.Sprintf("reading response from %s failed", target))
		return domain.ProxyResult{}, fmt.Errorf("%w: %s: malformed response", errors.ErrUpstreamUnreachable, target)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		f.errorLog.Record(target, operation, domain.FailureKindHTTPError, resp.StatusCode, truncate(body))
	}

	headers := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}

	f.logger.Debug("Proxied request", "service", target, "operation", operation, "status", resp.StatusCode)

	return domain.ProxyResult{
		Service:    target,
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       asJSON(resp.Header.Get("Content-Type"), body),
	}, nil
}

// buildRequest appends the endpoint path to the resolved base address and
// places the payload per method: GET and DELETE carry it as query parameters,
// POST and PUT as a JSON body.
func (f *Forwarder) buildRequest(ctx context.Context, req domain.ProxyRequest, baseURL string) (*http.Request, error) {
	fullURL := baseURL + "/" + strings.TrimPrefix(req.Endpoint, "/")

	var body io.Reader
	switch req.Method {
	case http.MethodGet, http.MethodDelete:
		if len(req.Data) > 0 && !bytes.Equal(bytes.TrimSpace(req.Data), []byte("null")) {
			params, err := queryParams(req.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
			}
			if len(params) > 0 {
				fullURL += "?" + params.Encode()
			}
		}
	default:
		if len(req.Data) > 0 {
			body = bytes.NewReader(req.Data)
		}
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}

	for key, value := range req.Headers {
		outReq.Header.Set(key, value)
	}
	if body != nil && outReq.Header.Get("Content-Type") == "" {
		outReq.Header.Set("Content-Type", "application/json")
	}

	return outReq, nil
}

// queryParams flattens a JSON object of scalar values into URL query parameters.
func queryParams(data json.RawMessage) (url.Values, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("data must be a JSON object when sent as query parameters")
	}

	params := url.Values{}
	for key, value := range fields {
		params.Set(key, fmt.Sprintf("%v", value))
	}

	return params, nil
}

// asJSON wraps a backend body so it is always safe to embed in a JSON response:
// JSON bodies pass through untouched, anything else is encoded as a string.
func asJSON(contentType string, body []byte) json.RawMessage {
	if strings.Contains(contentType, "application/json") && json.Valid(body) {
		return json.RawMessage(body)
	}

	encoded, err := json.Marshal(string(body))
	if err != nil {
		return json.RawMessage(`""`)
	}
	return json.RawMessage(encoded)
}

func truncate(body []byte) string {
	message := strings.TrimSpace(string(body))
	if len(message) > maxRecordedBody {
		message = message[:maxRecordedBody]
	}
	return message
}
