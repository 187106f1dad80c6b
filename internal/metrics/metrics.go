// Package metrics exposes simulator activity as Prometheus counters.
package metrics

import (
	"context"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the simulator counters.
type Collector struct {
	Transitions *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	Resets      *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerosim_transitions_total",
				Help: "Total number of accepted transitions",
			},
			[]string{"variant", "from", "to", "symbol"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerosim_rejections_total",
				Help: "Total number of rejected symbols, by failure kind",
			},
			[]string{"variant", "state", "reason"},
		),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerosim_resets_total",
				Help: "Total number of session resets",
			},
			[]string{"variant"},
		),
	}

	for _, col := range []prometheus.Collector{c.Transitions, c.Rejections, c.Resets} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record every event.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			c.Transitions.WithLabelValues(e.Variant, string(e.From), string(e.To), string(e.Symbol)).Inc()
		},
		OnRejected: func(ctx context.Context, e *domain.TransitionEvent) {
			c.Rejections.WithLabelValues(e.Variant, string(e.From), string(e.Failure)).Inc()
		},
		OnReset: func(ctx context.Context, e *domain.TransitionEvent) {
			c.Resets.WithLabelValues(e.Variant).Inc()
		},
	}
}
