package capwire

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/capwire-dev/capwire/capability"
	"github.com/capwire-dev/capwire/dispatch"
	"github.com/capwire-dev/capwire/manifest"
	"github.com/capwire-dev/capwire/registry"
	"github.com/capwire-dev/capwire/schema"
)

// Host bundles a provider registry, a schema registry, and a dispatcher into
// one convenience surface. The underlying components remain reachable for
// callers that need them directly.
type Host struct {
	providers  *registry.Registry
	schemas    *schema.Registry
	dispatcher *dispatch.Dispatcher
	binder     *manifest.Binder
}

// HostOption is a functional option for configuring a Host.
type HostOption func(*hostConfig)

type hostConfig struct {
	registryOpts []registry.RegistryOption
	logger       *slog.Logger
	metrics      prometheus.Registerer
	middlewares  []dispatch.Middleware
}

// WithOverwrite switches the host's provider registry to overwrite-allowed
// mode. The default is overwrite-rejected.
func WithOverwrite() HostOption {
	return func(c *hostConfig) {
		c.registryOpts = append(c.registryOpts, registry.WithOverwrite())
	}
}

// WithLogger enables structured dispatch logging.
func WithLogger(logger *slog.Logger) HostOption {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus dispatch metrics registered on reg.
func WithMetrics(reg prometheus.Registerer) HostOption {
	return func(c *hostConfig) {
		c.metrics = reg
	}
}

// WithMiddleware appends additional dispatch middleware, running inside the
// host's built-in chain.
func WithMiddleware(mw ...dispatch.Middleware) HostOption {
	return func(c *hostConfig) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// NewHost creates a host with panic recovery and schema validation wired in.
// Logging and metrics middleware are added when configured.
func NewHost(opts ...HostOption) *Host {
	var cfg hostConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	providers := registry.NewRegistry(cfg.registryOpts...)
	schemas := schema.NewRegistry()

	chain := []dispatch.Middleware{dispatch.PanicRecoveryMiddleware()}
	if cfg.logger != nil {
		chain = append(chain, dispatch.LoggingMiddleware(cfg.logger))
	}
	if cfg.metrics != nil {
		chain = append(chain, dispatch.MetricsMiddleware(dispatch.NewMetrics(cfg.metrics)))
	}
	chain = append(chain, cfg.middlewares...)
	chain = append(chain, dispatch.ValidationMiddleware(schema.NewValidator(schemas)))

	return &Host{
		providers:  providers,
		schemas:    schemas,
		dispatcher: dispatch.NewDispatcher(providers, dispatch.WithMiddleware(chain...)),
		binder:     manifest.NewBinder(providers, schemas),
	}
}

// Providers returns the host's provider registry.
func (h *Host) Providers() *registry.Registry {
	return h.providers
}

// Schemas returns the host's schema registry.
func (h *Host) Schemas() *schema.Registry {
	return h.schemas
}

// Register parses tag and binds provider to it.
func (h *Host) Register(tag string, provider capability.Provider) error {
	t, err := capability.NewTag(tag)
	if err != nil {
		return err
	}
	return h.providers.Register(t, provider)
}

// RegisterWithSchema binds provider to tag and installs an input schema for
// it. model follows schema.Registry.Register conventions. On failure neither
// registry is changed.
func (h *Host) RegisterWithSchema(tag string, model any, provider capability.Provider) error {
	t, err := capability.NewTag(tag)
	if err != nil {
		return err
	}
	if err := h.schemas.Register(t, model); err != nil {
		return err
	}
	if err := h.providers.Register(t, provider); err != nil {
		h.schemas.Unregister(t)
		return err
	}
	return nil
}

// Unregister removes the binding for tag along with its schema. Malformed or
// absent tags are a no-op.
func (h *Host) Unregister(tag string) {
	t, err := capability.NewTag(tag)
	if err != nil {
		return
	}
	h.providers.Unregister(t)
	h.schemas.Unregister(t)
}

// Install binds every capability a manifest declares, backed by set.
func (h *Host) Install(m *manifest.Manifest, set manifest.ProviderSet) error {
	return h.binder.Bind(m, set)
}

// Dispatch routes (tag, input) through the host's middleware chain to the
// bound provider.
func (h *Host) Dispatch(ctx context.Context, tag string, input any) (any, error) {
	t, err := capability.NewTag(tag)
	if err != nil {
		return nil, err
	}
	return h.dispatcher.Dispatch(ctx, t, input)
}
