package wrapper

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/reelprotocol/review-program/pkg/config"
)

// ErrUnsupportedConversion indicates the source produced a type the wrapper
// cannot convert.
var ErrUnsupportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// Uint64Config layers typing, a default, and last-known-value semantics over
// a raw config source.
type Uint64Config struct {
	source       config.Config
	defaultValue uint64

	stateMu   sync.RWMutex
	lastValue uint64
}

// NewUint64Config wraps source as a uint64 config with the given default.
func NewUint64Config(source config.Config, defaultValue uint64) config.Uint64 {
	return &Uint64Config{
		source:       source,
		defaultValue: defaultValue,
		lastValue:    defaultValue,
	}
}

// GetSafe returns the current value. An unset source yields the default; a
// failing source yields the last value observed, alongside the error.
func (c *Uint64Config) GetSafe(ctx context.Context) (uint64, error) {
	raw, err := c.source.Get(ctx)
	if err == config.ErrNoValue {
		c.store(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return c.load(), err
	}

	var value uint64
	switch raw := raw.(type) {
	case []byte:
		value, err = strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return c.load(), err
		}
	case uint64:
		value = raw
	case uint:
		value = uint64(raw)
	default:
		return c.load(), ErrUnsupportedConversion
	}

	c.store(value)
	return value, nil
}

// Get is GetSafe with the error dropped.
func (c *Uint64Config) Get(ctx context.Context) uint64 {
	val, _ := c.GetSafe(ctx)
	return val
}

func (c *Uint64Config) Shutdown() {
	c.source.Shutdown()
}

func (c *Uint64Config) load() uint64 {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastValue
}

func (c *Uint64Config) store(value uint64) {
	c.stateMu.Lock()
	c.lastValue = value
	c.stateMu.Unlock()
}
