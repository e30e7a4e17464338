package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	maxShutdownTimeout     = 2 * time.Minute
)

// ShutdownConfig bounds how long each server and the reconciler get to drain on SIGINT or SIGTERM.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *ShutdownConfig) Validate() error {
	switch {
	case c.Timeout == 0:
		c.Timeout = defaultShutdownTimeout
	case c.Timeout < 0:
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.Timeout)
	case c.Timeout > maxShutdownTimeout:
		return fmt.Errorf("shutdown timeout %s exceeds %s", c.Timeout, maxShutdownTimeout)
	}
	return nil
}
