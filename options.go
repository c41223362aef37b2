// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package schedulers

import (
	"github.com/joeycumines/logiface"
)

// poolOptions holds configuration options for Pool creation.
type poolOptions struct {
	workers     int
	stealRounds int
	factory     GoroutineFactory
	logger      *logiface.Logger[logiface.Event]
	metrics     bool
}

// --- Pool Options ---

// PoolOption configures a Pool instance.
type PoolOption interface {
	applyPool(*poolOptions) error
}

// poolOptionImpl implements PoolOption.
type poolOptionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (p *poolOptionImpl) applyPool(opts *poolOptions) error {
	return p.applyPoolFunc(opts)
}

// WithWorkers sets the number of worker goroutines. Values below 1 are
// clamped to 1. The default is the hardware concurrency hint,
// runtime.NumCPU.
func WithWorkers(n int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if n < 1 {
			n = 1
		}
		opts.workers = n
		return nil
	}}
}

// WithGoroutineFactory sets the factory used to start each worker. The
// factory lets callers adapt a worker before its body runs, e.g. attach it
// to a host-language runtime. See GoroutineFactory for the contract.
func WithGoroutineFactory(factory GoroutineFactory) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.factory = factory
		return nil
	}}
}

// WithStealRounds sets the number of passes a worker makes over all queues
// before blocking on its own. Values below 1 are clamped to 1. The default
// is 8, which amortizes the steal loop so a busy worker doesn't flap
// between stealing and blocking.
func WithStealRounds(rounds int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.stealRounds = rounds
		return nil
	}}
}

// WithLogger sets the structured logger used for pool lifecycle events.
// A nil logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables runtime metrics collection on the Pool. When enabled,
// counters can be read via Pool.Metrics. Adds two to four atomic increments
// per task (submitted and executed always; stolen and blocked pushes when
// they occur).
func WithMetrics(enabled bool) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.metrics = enabled
		return nil
	}}
}

// resolvePoolOptions applies PoolOption instances to poolOptions.
func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{
		stealRounds: defaultStealRounds,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
