package config

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates the underlying source has no value set
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the config was used after Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of a single raw configuration value. Implementations
// decide where the value comes from (environment, memory) and how fresh it
// is; typed wrappers handle conversion and defaults.
type Config interface {
	// Get returns the latest raw value, or ErrNoValue when unset.
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases any resources behind the config.
	Shutdown()
}

// NoopConfig never yields a value. Useful as a placeholder source when only
// the wrapper's default is wanted.
var NoopConfig = &noopConfig{}

type noopConfig struct{}

func (*noopConfig) Get(_ context.Context) (interface{}, error) {
	return nil, ErrNoValue
}

func (*noopConfig) Shutdown() {
}

// Uint64 is a uint64 typed view over a Config.
type Uint64 interface {
	Get(ctx context.Context) uint64
	GetSafe(ctx context.Context) (uint64, error)
	Shutdown()
}
