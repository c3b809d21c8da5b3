package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/traingate/traingate/internal/errors"
)

func TestHandleListServices(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(map[string]string{
		"agent_service":   "http://agent_service:8000",
		"booking_service": "http://booking_service:8001",
	})

	resp, err := handleListServices(registry)
	require.NoError(t, err)
	require.Len(t, resp.Body.Services, 2)

	names := make([]string, 0, len(resp.Body.Services))
	for _, entry := range resp.Body.Services {
		names = append(names, entry.Name)
	}
	require.ElementsMatch(t, []string{"agent_service", "booking_service"}, names)
}

func TestHandleListServices_Empty(t *testing.T) {
	t.Parallel()

	resp, err := handleListServices(newMockRegistry(nil))
	require.NoError(t, err)
	require.Empty(t, resp.Body.Services)
	require.NotNil(t, resp.Body.Services, "empty list must serialise as [] not null")
}

func TestHandleRegisterService(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(nil)
	monitor := newMockMonitor(nil)

	resp, err := handleRegisterService(registry, monitor, "sales_service", "http://sales_service:8002")
	require.NoError(t, err)
	require.Equal(t, "Service 'sales_service' registered at http://sales_service:8002", resp.Body.Message)

	baseURL, err := registry.Resolve("sales_service")
	require.NoError(t, err)
	require.Equal(t, "http://sales_service:8002", baseURL)

	require.Equal(t, []string{"sales_service"}, monitor.tracked)
}

func TestHandleRegisterService_InvalidAddress(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(nil)
	registry.registerErr = errors.ErrInvalidAddress
	monitor := newMockMonitor(nil)

	_, err := handleRegisterService(registry, monitor, "sales_service", "not-a-url")
	require.ErrorIs(t, err, errors.ErrInvalidAddress)
	require.Empty(t, monitor.tracked, "failed registrations must not start health tracking")
}

func TestHandleDeregisterService(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(map[string]string{"sales_service": "http://sales_service:8002"})
	monitor := newMockMonitor(nil)

	resp, err := handleDeregisterService(registry, monitor, "sales_service")
	require.NoError(t, err)
	require.Equal(t, "Service 'sales_service' deregistered", resp.Body.Message)

	_, err = registry.Resolve("sales_service")
	require.ErrorIs(t, err, errors.ErrServiceNotFound)

	require.Equal(t, []string{"sales_service"}, monitor.forgotten)
}

func TestHandleDeregisterService_Unknown(t *testing.T) {
	t.Parallel()

	registry := newMockRegistry(nil)
	monitor := newMockMonitor(nil)

	_, err := handleDeregisterService(registry, monitor, "ghost_service")
	require.ErrorIs(t, err, errors.ErrServiceNotFound)
	require.Empty(t, monitor.forgotten)
}
