package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/aerosim"
	"github.com/aretw0/aerosim/internal/config"
	"github.com/aretw0/aerosim/pkg/adapters/redis"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/observability"
)

// Runtime bundles a configured simulator with the resources to release on exit.
type Runtime struct {
	Sim    *aerosim.Simulator
	Logger *slog.Logger
	close  []func() error
}

// Close releases external connections.
func (r *Runtime) Close() error {
	var first error
	for _, fn := range r.close {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewRuntime builds a Simulator following the configuration: variant, custom
// tables, store backend and logging. extra hooks (e.g. metrics) are merged in.
func NewRuntime(ctx context.Context, cfg *config.Config, extra ...domain.LifecycleHooks) (*Runtime, error) {
	logger, err := createLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Logger: logger}

	custom, err := cfg.CustomTables()
	if err != nil {
		return nil, err
	}

	opts := []aerosim.Option{
		aerosim.WithVariant(cfg.Variant),
		aerosim.WithCustomTables(custom...),
		aerosim.WithLogger(logger),
		aerosim.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	for _, h := range extra {
		opts = append(opts, aerosim.WithLifecycleHooks(h))
	}

	if cfg.Store == config.StoreRedis {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Client().Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		rt.close = append(rt.close, store.Client().Close)
		opts = append(opts,
			aerosim.WithStore(store),
			aerosim.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix)),
		)
		logger.Info("Using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	sim, err := aerosim.New(opts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing simulator: %w", err)
	}
	rt.Sim = sim
	return rt, nil
}
