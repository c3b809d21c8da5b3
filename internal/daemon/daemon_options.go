package daemon

import (
	"fmt"
	"strings"
	"time"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// HealthCheckInterval specifies how often to probe registered services.
	HealthCheckInterval time.Duration

	// HealthCheckTimeout specifies maximum time to wait for a probe response.
	HealthCheckTimeout time.Duration

	// HealthCheckPath is the path probed on each service's base address.
	HealthCheckPath string

	// ProxyTimeout specifies maximum time to wait for a forwarded request.
	ProxyTimeout time.Duration

	// ProxyFailFast short-circuits proxy calls to known-down services.
	ProxyFailFast bool

	// ErrorLogCapacity is the per-service bound on retained error records.
	ErrorLogCapacity int
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithHealthCheckInterval configures how often to probe registered services.
func WithHealthCheckInterval(interval time.Duration) Option {
	return func(o *Options) error {
		if interval <= 0 {
			return fmt.Errorf("health check interval must be positive, got %v", interval)
		}
		o.HealthCheckInterval = interval
		return nil
	}
}

// WithHealthCheckTimeout configures maximum time to wait for probe responses.
func WithHealthCheckTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("health check timeout must be positive, got %v", timeout)
		}
		o.HealthCheckTimeout = timeout
		return nil
	}
}

// WithHealthCheckPath configures the path probed on each service.
func WithHealthCheckPath(path string) Option {
	return func(o *Options) error {
		path = strings.TrimSpace(path)
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("health check path must start with '/', got %q", path)
		}
		o.HealthCheckPath = path
		return nil
	}
}

// WithProxyTimeout configures maximum time to wait for forwarded requests.
func WithProxyTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("proxy timeout must be positive, got %v", timeout)
		}
		o.ProxyTimeout = timeout
		return nil
	}
}

// WithProxyFailFast enables or disables the fail-fast policy for proxy calls.
func WithProxyFailFast(enabled bool) Option {
	return func(o *Options) error {
		o.ProxyFailFast = enabled
		return nil
	}
}

// WithErrorLogCapacity configures the per-service bound on retained error records.
func WithErrorLogCapacity(capacity int) Option {
	return func(o *Options) error {
		if capacity <= 0 {
			return fmt.Errorf("error log capacity must be positive, got %d", capacity)
		}
		o.ErrorLogCapacity = capacity
		return nil
	}
}

// DefaultHealthCheckInterval is the default interval between probing cycles.
func DefaultHealthCheckInterval() time.Duration {
	return 10 * time.Second
}

// DefaultHealthCheckTimeout is the default timeout for probe responses.
func DefaultHealthCheckTimeout() time.Duration {
	return 3 * time.Second
}

// DefaultHealthCheckPath is the default liveness path probed on each service.
func DefaultHealthCheckPath() string {
	return "/"
}

// DefaultProxyTimeout is the default timeout for forwarded requests.
func DefaultProxyTimeout() time.Duration {
	return 10 * time.Second
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		HealthCheckInterval: DefaultHealthCheckInterval(),
		HealthCheckTimeout:  DefaultHealthCheckTimeout(),
		HealthCheckPath:     DefaultHealthCheckPath(),
		ProxyTimeout:        DefaultProxyTimeout(),
		ProxyFailFast:       true,
		ErrorLogCapacity:    DefaultErrorLogCapacity,
	}
}
