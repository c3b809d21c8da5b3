package daemon

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Daemon owns the gateway's long-running components: the service registry,
// the health monitor, the error log and the API server that exposes them.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	registry  *Registry
	tracker   *HealthTracker
	errorLog  *ErrorLog
	monitor   *HealthMonitor
	forwarder *Forwarder
	apiServer *APIServer
}

// NewDaemon creates a gateway daemon with the provided dependencies and options.
// The registry is seeded with the configured services; seeding fails on the
// first invalid entry.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	registry := NewRegistry()
	names := make([]string, 0, len(deps.Services))
	for _, svc := range deps.Services {
		if err := registry.Register(svc.Name, svc.URL); err != nil {
			return nil, fmt.Errorf("failed to seed registry with service '%s': %w", svc.Name, err)
		}
		names = append(names, svc.Name)
	}

	tracker := NewHealthTracker(names)
	errorLog := NewErrorLog(deps.Logger, opts.ErrorLogCapacity)

	monitor := NewHealthMonitor(
		deps.Logger,
		registry,
		tracker,
		opts.HealthCheckInterval,
		opts.HealthCheckTimeout,
		opts.HealthCheckPath,
	)

	forwarder := NewForwarder(
		deps.Logger,
		registry,
		tracker,
		errorLog,
		opts.ProxyTimeout,
		opts.ProxyFailFast,
	)

	apiDeps, err := NewAPIDependencies(deps.Logger, registry, tracker, errorLog, forwarder, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble API server dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:    logger,
		registry:  registry,
		tracker:   tracker,
		errorLog:  errorLog,
		monitor:   monitor,
		forwarder: forwarder,
		apiServer: apiServer,
	}, nil
}

// StartAndManage runs the health monitor and the API server until the context
// is canceled. Cancellation stops new probing cycles and shuts the API server
// down gracefully; in-flight probes complete or time out naturally.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	d.logger.Info("Starting gateway", "services", len(d.registry.List()))

	go d.monitor.Run(ctx)

	return d.apiServer.Start(ctx)
}
