package env

import (
	"context"
	"os"
	"strings"

	"github.com/reelprotocol/review-program/pkg/config"
	"github.com/reelprotocol/review-program/pkg/config/wrapper"
)

// conf reads an environment variable once, at construction. Environment
// values don't change underneath a running process, so there's nothing to
// watch.
type conf struct {
	val string
}

// NewConfig returns a config backed by the named environment variable. The
// name is uppercased before lookup.
func NewConfig(key string) config.Config {
	return &conf{
		val: os.Getenv(strings.ToUpper(key)),
	}
}

func (c *conf) Get(_ context.Context) (interface{}, error) {
	if len(c.val) == 0 {
		return nil, config.ErrNoValue
	}

	return []byte(c.val), nil
}

func (c *conf) Shutdown() {
}

// NewUint64Config returns an environment-backed uint64 config that falls
// back to defaultValue when the variable is unset.
func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}
