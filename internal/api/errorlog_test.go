package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

func TestHandleListErrors(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	errorLog := newMockErrorLog(map[string][]domain.ErrorRecord{
		"booking_service": {
			{
				ServiceName: "booking_service",
				Timestamp:   now,
				Operation:   "GET /bookings",
				Kind:        domain.FailureKindHTTPError,
				StatusCode:  500,
				Message:     "database offline",
			},
		},
		"ghost_service": {
			{
				ServiceName: "ghost_service",
				Timestamp:   now,
				Operation:   "GET /anything",
				Kind:        domain.FailureKindUnknownService,
				Message:     `service "ghost_service" is not registered`,
			},
		},
	})

	resp, err := handleListErrors(errorLog)
	require.NoError(t, err)
	require.Len(t, resp.Body.Errors, 2)

	booking := resp.Body.Errors["booking_service"]
	require.Len(t, booking, 1)
	require.Equal(t, "booking_service", booking[0].Service)
	require.Equal(t, "GET /bookings", booking[0].Operation)
	require.Equal(t, string(domain.FailureKindHTTPError), booking[0].Kind)
	require.Equal(t, 500, booking[0].StatusCode)
	require.Equal(t, "database offline", booking[0].Message)
}

func TestHandleListErrors_Empty(t *testing.T) {
	t.Parallel()

	resp, err := handleListErrors(newMockErrorLog(nil))
	require.NoError(t, err)
	require.Empty(t, resp.Body.Errors)
}

func TestHandleServiceErrors(t *testing.T) {
	t.Parallel()

	record := domain.ErrorRecord{
		ServiceName: "sales_service",
		Timestamp:   time.Now().UTC(),
		Operation:   "POST /orders",
		Kind:        domain.FailureKindNetworkError,
		Message:     "request to sales_service failed: connection failed",
	}

	tests := []struct {
		name            string
		records         map[string][]domain.ErrorRecord
		registered      map[string]string
		service         string
		expectedRecords int
		wantErr         bool
	}{
		{
			name:            "registered service with history",
			records:         map[string][]domain.ErrorRecord{"sales_service": {record}},
			registered:      map[string]string{"sales_service": "http://sales_service:8002"},
			service:         "sales_service",
			expectedRecords: 1,
		},
		{
			name:            "registered service without history",
			registered:      map[string]string{"sales_service": "http://sales_service:8002"},
			service:         "sales_service",
			expectedRecords: 0,
		},
		{
			name:            "deregistered service with history",
			records:         map[string][]domain.ErrorRecord{"sales_service": {record}},
			service:         "sales_service",
			expectedRecords: 1,
		},
		{
			name:    "unknown service without history",
			service: "ghost_service",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			errorLog := newMockErrorLog(tc.records)
			registry := newMockRegistry(tc.registered)

			resp, err := handleServiceErrors(errorLog, registry, tc.service)
			if tc.wantErr {
				require.ErrorIs(t, err, errors.ErrServiceNotFound)
				return
			}
			require.NoError(t, err)
			require.Len(t, resp.Body.Errors, tc.expectedRecords)
		})
	}
}
