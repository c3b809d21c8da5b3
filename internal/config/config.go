package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrConfigLoadFailed indicates the config file could not be read, decoded or validated.
var ErrConfigLoadFailed = errors.New("config load failed")

// Loader provides access to gateway configuration files.
type Loader interface {
	// Load reads and validates the config file at path.
	Load(path string) (*Config, error)

	// Init creates the base skeleton configuration file for a traingate project.
	Init(path string) error
}

// DefaultLoader is the file-backed Loader used outside of tests.
type DefaultLoader struct{}

// Config is the top-level TOML configuration for the gateway
// (.traingate.toml by default).
type Config struct {
	Services []ServiceEntry `toml:"services"`
	API      *APISection    `toml:"api,omitempty"`
	Health   *HealthSection `toml:"health,omitempty"`
	Proxy    *ProxySection  `toml:"proxy,omitempty"`
	Errors   *ErrorsSection `toml:"errors,omitempty"`
}

// ServiceEntry is one backend service seeded into the registry at startup.
type ServiceEntry struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// APISection contains API server configuration settings.
type APISection struct {
	// Address to bind the API server (e.g., "0.0.0.0:8095")
	// Maps to CLI flag --addr
	Addr *string `toml:"addr,omitempty"`

	// Shutdown timeout for graceful API server shutdown
	ShutdownTimeout *Duration `toml:"shutdown_timeout,omitempty"`

	// Nested CORS configuration for cross-origin requests
	CORS *CORSSection `toml:"cors,omitempty"`
}

// CORSSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSSection struct {
	Enable  *bool    `toml:"enable,omitempty"`
	Origins []string `toml:"allow_origins,omitempty"`
	Methods []string `toml:"allow_methods,omitempty"`
	Headers []string `toml:"allow_headers,omitempty"`
}

// HealthSection contains health monitor configuration settings.
type HealthSection struct {
	// Interval between probing cycles.
	Interval *Duration `toml:"interval,omitempty"`

	// Timeout bounding each individual probe.
	Timeout *Duration `toml:"timeout,omitempty"`

	// Path appended to a service's base address for liveness probes.
	Path *string `toml:"path,omitempty"`
}

// ProxySection contains request proxy configuration settings.
type ProxySection struct {
	// Timeout bounding each forwarded request.
	Timeout *Duration `toml:"timeout,omitempty"`

	// FailFast short-circuits proxy calls to services whose last known
	// health status is down, instead of waiting for the network timeout.
	FailFast *bool `toml:"fail_fast,omitempty"`
}

// ErrorsSection contains error log configuration settings.
type ErrorsSection struct {
	// Capacity is the per-service bound on retained error records.
	Capacity *int `toml:"capacity,omitempty"`
}

// Duration wraps time.Duration so TOML values can be written as "3s", "10s" etc.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler for Duration.
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(*d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Init creates the base skeleton configuration file for a traingate project.
// The skeleton registers the standard travel-booking backend services.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(skeleton), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads and validates the TOML config file at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'traingate init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var validationErrors []error

	seen := make(map[string]struct{}, len(c.Services))
	for _, s := range c.Services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			validationErrors = append(validationErrors, fmt.Errorf("service name cannot be empty"))
			continue
		}
		if _, dup := seen[name]; dup {
			validationErrors = append(validationErrors, fmt.Errorf("duplicate service name: %s", name))
		}
		seen[name] = struct{}{}

		if err := validateServiceURL(s.URL); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("service %s: %w", name, err))
		}
	}

	if c.Errors != nil && c.Errors.Capacity != nil && *c.Errors.Capacity <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("errors.capacity must be positive"))
	}

	durations := map[string]*Duration{}
	if c.Health != nil {
		durations["health.interval"] = c.Health.Interval
		durations["health.timeout"] = c.Health.Timeout
	}
	if c.Proxy != nil {
		durations["proxy.timeout"] = c.Proxy.Timeout
	}
	if c.API != nil {
		durations["api.shutdown_timeout"] = c.API.ShutdownTimeout
	}
	for name, d := range durations {
		if d != nil && time.Duration(*d) <= 0 {
			validationErrors = append(validationErrors, fmt.Errorf("%s must be positive", name))
		}
	}

	return errors.Join(validationErrors...)
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url: %s", raw)
	}
	return nil
}

const skeleton = `[api]
addr = "0.0.0.0:8095"

[health]
interval = "10s"
timeout = "3s"
path = "/"

[proxy]
timeout = "10s"
fail_fast = true

[errors]
capacity = 100

[[services]]
name = "agent_service"
url = "http://agent_service:8000"

[[services]]
name = "booking_service"
url = "http://booking_service:8001"

[[services]]
name = "sales_service"
url = "http://sales_service:8002"

[[services]]
name = "invoicing_service"
url = "http://invoicing_service:8003"

[[services]]
name = "train_booking_service"
url = "http://train_booking_service:8084"

[[services]]
name = "train_seat_status_service"
url = "http://train_seat_status_service:8090"
`
