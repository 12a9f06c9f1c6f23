package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/reelprotocol/review-program/pkg/config"
)

var errInduced = errors.New("in memory config: induced error")

// Config is an in-memory config source, primarily for tests. The zero state
// (nil value) reads as unset.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns an in-memory config holding value. Pass nil to start
// without a value set.
func NewConfig(value interface{}) *Config {
	return &Config{
		value: value,
	}
}

func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}

	return c.value, nil
}

func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

// SetValue changes the value returned by subsequent Get calls.
func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// ClearValue puts the config back into the unset state; Get returns
// ErrNoValue until a value is set again.
func (c *Config) ClearValue() {
	c.mu.Lock()
	c.value = nil
	c.mu.Unlock()
}

// InduceErrors makes every Get fail until StopInducingErrors is called.
func (c *Config) InduceErrors() {
	c.mu.Lock()
	c.err = errInduced
	c.mu.Unlock()
}

// StopInducingErrors undoes InduceErrors.
func (c *Config) StopInducingErrors() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}
