package config

import (
	"fmt"
	"strings"
	"time"
)

// ReindexConfig controls the periodic rebuild of search shadows from the primary store.
// A zero interval disables the periodic run.
type ReindexConfig struct {
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"onstartup"`
}

// String returns a string representation of the ReindexConfig.
func (c *ReindexConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Reindex ---\n")
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	b.WriteString(fmt.Sprintf("  onstartup: %t\n", c.OnStartup))
	return b.String()
}

func (c *ReindexConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("reindex interval must not be negative")
	}
	return nil
}
