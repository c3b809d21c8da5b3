package api

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) huma.API {
	t.Helper()
	return humachi.New(chi.NewMux(), huma.DefaultConfig("test", APIVersion))
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	prefix, err := RegisterRoutes(router, newMockRegistry(nil), newMockMonitor(nil), newMockErrorLog(nil), &mockForwarder{})
	require.NoError(t, err)
	require.Equal(t, "/api/v1", prefix)
}

func TestRegisterRoutes_NilDependencies(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(nil)
	monitor := newMockMonitor(nil)
	errorLog := newMockErrorLog(nil)
	forwarder := &mockForwarder{}

	tests := []struct {
		name        string
		register    func(router huma.API) (string, error)
		errContains string
	}{
		{
			name: "nil router",
			register: func(_ huma.API) (string, error) {
				return RegisterRoutes(nil, registry, monitor, errorLog, forwarder)
			},
			errContains: "router cannot be nil",
		},
		{
			name: "nil registry",
			register: func(router huma.API) (string, error) {
				return RegisterRoutes(router, nil, monitor, errorLog, forwarder)
			},
			errContains: "registry cannot be nil",
		},
		{
			name: "nil monitor",
			register: func(router huma.API) (string, error) {
				return RegisterRoutes(router, registry, nil, errorLog, forwarder)
			},
			errContains: "health monitor cannot be nil",
		},
		{
			name: "nil error log",
			register: func(router huma.API) (string, error) {
				return RegisterRoutes(router, registry, monitor, nil, forwarder)
			},
			errContains: "error log cannot be nil",
		},
		{
			name: "nil forwarder",
			register: func(router huma.API) (string, error) {
				return RegisterRoutes(router, registry, monitor, errorLog, nil)
			},
			errContains: "forwarder cannot be nil",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.register(newTestRouter(t))
			require.Error(t, err)
			require.ErrorContains(t, err, tc.errContains)
		})
	}
}
