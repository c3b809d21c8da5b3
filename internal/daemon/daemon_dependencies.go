package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/traingate/traingate/internal/config"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8095").
	APIAddr string

	// Logger for daemon and subcomponent operations.
	Logger hclog.Logger

	// Services contains the backend services seeded into the registry at startup.
	// The registry can start empty; services can be registered at runtime.
	Services []config.ServiceEntry
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	services []config.ServiceEntry,
) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:  apiAddr,
		Logger:   logger,
		Services: services,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	return nil
}
