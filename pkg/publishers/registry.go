package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/sepush/internal/logger"
)

// Builder creates a Publisher from a validated config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Registry maps publisher types to builders. It is populated at startup and
// read-only afterwards.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry knows every type accepted in the publishers file.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeHTTP, newHTTPPublisher)
	r.Register(TypeSQS, newSQSPublisher)
	r.Register(TypeSNS, newSNSPublisher)
	r.Register(TypePubSub, newPubSubPublisher)
	return r
}

// Register replaces the builder for typ.
func (r *Registry) Register(typ string, b Builder) {
	r.builders[typ] = b
}

// Build validates cfg and creates its publisher.
func (r *Registry) Build(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	cfg.normalize()
	sink, err := cfg.sink()
	if err == nil {
		err = sink.check()
	}
	if err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	b, ok := r.builders[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return b(ctx, cfg, log)
}

// BuildFanout builds every cfg and routes each by its region filter. Already
// built publishers are closed when one fails.
func (r *Registry) BuildFanout(ctx context.Context, cfgs []PublisherConfig, log logger.Logger) (*Fanout, error) {
	f := &Fanout{}
	for _, cfg := range cfgs {
		pub, err := r.Build(ctx, cfg, log)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		f.Add(pub, cfg.Regions...)
	}
	return f, nil
}
