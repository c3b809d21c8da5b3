package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/traingate/traingate/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8095").
	Addr string

	// Registry resolves and manages backend service addresses.
	Registry contracts.ServiceRegistry

	// Monitor tracks backend service health status.
	Monitor contracts.HealthMonitor

	// ErrorLog records failed backend interactions.
	ErrorLog contracts.ErrorLog

	// Forwarder proxies requests to backend services.
	Forwarder contracts.RequestForwarder

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	registry contracts.ServiceRegistry,
	monitor contracts.HealthMonitor,
	errorLog contracts.ErrorLog,
	forwarder contracts.RequestForwarder,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:      addr,
		Registry:  registry,
		Monitor:   monitor,
		ErrorLog:  errorLog,
		Forwarder: forwarder,
		Logger:    logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("registry cannot be nil")
	}
	if d.Monitor == nil || reflect.ValueOf(d.Monitor).IsNil() {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if d.ErrorLog == nil || reflect.ValueOf(d.ErrorLog).IsNil() {
		return fmt.Errorf("error log cannot be nil")
	}
	if d.Forwarder == nil || reflect.ValueOf(d.Forwarder).IsNil() {
		return fmt.Errorf("forwarder cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
