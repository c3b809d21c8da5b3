package daemon

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

type forwarderFixture struct {
	registry  *Registry
	tracker   *HealthTracker
	errorLog  *ErrorLog
	forwarder *Forwarder
}

func newForwarderFixture(t *testing.T, failFast bool) *forwarderFixture {
	t.Helper()

	registry := NewRegistry()
	tracker := NewHealthTracker(nil)
	errorLog := NewErrorLog(hclog.NewNullLogger(), DefaultErrorLogCapacity)

	return &forwarderFixture{
		registry:  registry,
		tracker:   tracker,
		errorLog:  errorLog,
		forwarder: NewForwarder(hclog.NewNullLogger(), registry, tracker, errorLog, 2*time.Second, failFast),
	}
}

func TestForwarder_ForwardSuccess(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"passenger": "alice"}`, string(payload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"booking_id": 42}`))
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("booking_service", backend.URL))

	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "booking_service",
		Endpoint:      "/bookings",
		Method:        "post",
		Data:          json.RawMessage(`{"passenger": "alice"}`),
	})
	require.NoError(t, err)
	require.Equal(t, "booking_service", result.Service)
	require.Equal(t, http.StatusCreated, result.StatusCode)
	require.JSONEq(t, `{"booking_id": 42}`, string(result.Body))
	require.Empty(t, fx.errorLog.ListFor("booking_service"))
}

func TestForwarder_ForwardQueryParams(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "alice", r.URL.Query().Get("passenger"))
		require.Equal(t, "3", r.URL.Query().Get("seats"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"available": true}`))
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("train_seat_status_service", backend.URL))

	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "train_seat_status_service",
		Endpoint:      "seats",
		Method:        http.MethodGet,
		Data:          json.RawMessage(`{"passenger": "alice", "seats": 3}`),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StatusCode)
	require.JSONEq(t, `{"available": true}`, string(result.Body))
}

func TestForwarder_BackendErrorReturnedVerbatim(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "database offline"}`))
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("invoicing_service", backend.URL))

	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "invoicing_service",
		Endpoint:      "/invoices",
		Method:        http.MethodGet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, result.StatusCode)
	require.JSONEq(t, `{"detail": "database offline"}`, string(result.Body))

	records := fx.errorLog.ListFor("invoicing_service")
	require.Len(t, records, 1)
	require.Equal(t, domain.FailureKindHTTPError, records[0].Kind)
	require.Equal(t, http.StatusInternalServerError, records[0].StatusCode)
	require.Equal(t, "GET /invoices", records[0].Operation)
	require.Contains(t, records[0].Message, "database offline")
}

func TestForwarder_UnknownService(t *testing.T) {
	t.Parallel()

	fx := newForwarderFixture(t, false)

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "ghost_service",
		Endpoint:      "/anything",
		Method:        http.MethodGet,
	})
	require.ErrorIs(t, err, errors.ErrUnknownService)

	records := fx.errorLog.ListFor("ghost_service")
	require.Len(t, records, 1)
	require.Equal(t, domain.FailureKindUnknownService, records[0].Kind)
}

func TestForwarder_FailFastShortCircuits(t *testing.T) {
	t.Parallel()

	var calls int
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, true)
	require.NoError(t, fx.registry.Register("sales_service", backend.URL))
	fx.tracker.Track("sales_service")
	require.NoError(t, fx.tracker.Update("sales_service", domain.HealthStatusDown, nil, "probe returned status 500"))

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "sales_service",
		Endpoint:      "/orders",
		Method:        http.MethodGet,
	})
	require.ErrorIs(t, err, errors.ErrServiceUnavailable)
	require.Zero(t, calls, "fail-fast must not attempt the network call")

	records := fx.errorLog.ListFor("sales_service")
	require.Len(t, records, 1)
	require.Equal(t, domain.FailureKindServiceUnavailable, records[0].Kind)
}

func TestForwarder_FailFastAllowsUnknownStatus(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, true)
	require.NoError(t, fx.registry.Register("agent_service", backend.URL))

	// Registered but never probed; the request must still go through.
	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "agent_service",
		Endpoint:      "/",
		Method:        http.MethodGet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StatusCode)
}

func TestForwarder_NetworkError(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	backend.Close() // nothing is listening any more

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("booking_service", backend.URL))

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "booking_service",
		Endpoint:      "/bookings",
		Method:        http.MethodGet,
	})
	require.ErrorIs(t, err, errors.ErrUpstreamUnreachable)

	records := fx.errorLog.ListFor("booking_service")
	require.Len(t, records, 1)
	require.Equal(t, domain.FailureKindNetworkError, records[0].Kind)
	require.NotContains(t, records[0].Message, backend.URL, "backend address must not leak into error records")
}

func TestForwarder_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		backend.Close()
	})

	fx := newForwarderFixture(t, false)
	fx.forwarder.timeout = 100 * time.Millisecond
	require.NoError(t, fx.registry.Register("train_booking_service", backend.URL))

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "train_booking_service",
		Endpoint:      "/book",
		Method:        http.MethodPost,
		Data:          json.RawMessage(`{"train": "TGV-1"}`),
	})
	require.ErrorIs(t, err, errors.ErrUpstreamUnreachable)

	records := fx.errorLog.ListFor("train_booking_service")
	require.Len(t, records, 1)
	require.Contains(t, records[0].Message, "timed out")
}

func TestForwarder_UnsupportedMethod(t *testing.T) {
	t.Parallel()

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("agent_service", "http://localhost:8000"))

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "agent_service",
		Endpoint:      "/",
		Method:        "PATCH",
	})
	require.ErrorIs(t, err, errors.ErrBadRequest)
	require.Empty(t, fx.errorLog.ListFor("agent_service"), "validation failures are not recorded")
}

func TestForwarder_InvalidQueryData(t *testing.T) {
	t.Parallel()

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("agent_service", "http://localhost:8000"))

	_, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "agent_service",
		Endpoint:      "/",
		Method:        http.MethodGet,
		Data:          json.RawMessage(`[1, 2, 3]`),
	})
	require.ErrorIs(t, err, errors.ErrBadRequest)
}

func TestForwarder_NonJSONBodyWrapped(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("agent_service", backend.URL))

	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "agent_service",
		Endpoint:      "/ping",
		Method:        http.MethodGet,
	})
	require.NoError(t, err)
	require.Equal(t, `"pong"`, string(result.Body))
	require.True(t, json.Valid(result.Body))
}

func TestForwarder_HeadersForwarded(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("X-Backend-Version", "2.1")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(backend.Close)

	fx := newForwarderFixture(t, false)
	require.NoError(t, fx.registry.Register("agent_service", backend.URL))

	result, err := fx.forwarder.Forward(context.Background(), domain.ProxyRequest{
		TargetService: "agent_service",
		Endpoint:      "/secure",
		Method:        http.MethodGet,
		Headers:       map[string]string{"Authorization": "Bearer token-123"},
	})
	require.NoError(t, err)
	require.Equal(t, "2.1", result.Headers["X-Backend-Version"])
}
