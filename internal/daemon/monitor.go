package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/traingate/traingate/internal/contracts"
	"github.com/traingate/traingate/internal/domain"
	"github.com/traingate/traingate/internal/errors"
)

// HealthMonitor periodically probes every registered service and records the
// outcome in the health tracker. Probes within a cycle run concurrently so a
// single unreachable service cannot delay detection of the others.
type HealthMonitor struct {
	logger     hclog.Logger
	registry   contracts.ServiceRegistry
	tracker    contracts.HealthMonitor
	client     *http.Client
	interval   time.Duration
	timeout    time.Duration
	healthPath string
}

// NewHealthMonitor creates a monitor over the given registry and tracker.
func NewHealthMonitor(
	logger hclog.Logger,
	registry contracts.ServiceRegistry,
	tracker contracts.HealthMonitor,
	interval time.Duration,
	timeout time.Duration,
	healthPath string,
) *HealthMonitor {
	return &HealthMonitor{
		logger:     logger.Named("monitor"),
		registry:   registry,
		tracker:    tracker,
		client:     &http.Client{},
		interval:   interval,
		timeout:    timeout,
		healthPath: healthPath,
	}
}

// Run executes probing cycles until the context is canceled. One cycle runs at
// a time; cancellation stops new cycles while in-flight probes finish or time
// out naturally.
func (m *HealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Stopping service health checks")
			return
		case <-ticker.C:
			m.probeAll(ctx)
		}
	}
}

// probeAll snapshots the registry and probes every entry concurrently,
// returning once the whole cycle has completed.
func (m *HealthMonitor) probeAll(ctx context.Context) {
	entries := m.registry.List()

	var g errgroup.Group
	for _, entry := range entries {
		m.tracker.Track(entry.Name)
		g.Go(func() error {
			m.probe(ctx, entry)
			return nil
		})
	}
	_ = g.Wait()
}

// probe issues a single liveness check. Failures are never propagated; they
// only update the tracked health record.
func (m *HealthMonitor) probe(ctx context.Context, entry domain.ServiceEntry) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	probeURL := entry.BaseURL + m.healthPath

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, probeURL, nil)
	if err != nil {
		m.record(entry.Name, domain.HealthStatusDown, nil, fmt.Sprintf("invalid probe request: %v", err))
		return
	}

	start := time.Now()
	resp, err := m.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		detail := "connection failed"
		if stdErrors.Is(err, context.DeadlineExceeded) || probeCtx.Err() != nil {
			detail = fmt.Sprintf("probe timed out after %s", m.timeout)
		}
		m.record(entry.Name, domain.HealthStatusDown, nil, detail)
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		m.record(entry.Name, domain.HealthStatusDown, &latency, fmt.Sprintf("probe returned status %d", resp.StatusCode))
		return
	}

	m.record(entry.Name, domain.HealthStatusUp, &latency, "")
}

func (m *HealthMonitor) record(name string, status domain.HealthStatus, latency *time.Duration, detail string) {
	if err := m.tracker.Update(name, status, latency, detail); err != nil {
		if stdErrors.Is(err, errors.ErrHealthNotTracked) {
			// Deregistered mid-cycle, discard the result.
			m.logger.Debug("Discarding probe result for deregistered service", "service", name)
			return
		}
		m.logger.Error("Failed to record probe result", "service", name, "error", err)
		return
	}

	m.logger.Debug("Probe completed", "service", name, "status", status, "detail", detail)
}
