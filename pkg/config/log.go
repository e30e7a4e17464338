package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// LogConfig selects the level and output format of the service logger.
// Empty values fall back to info and json.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c *LogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Level))
	b.WriteString(fmt.Sprintf("  format: %s\n", c.Format))
	return b.String()
}

func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if c.Level == "" {
		c.Level = "info"
	}
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("unknown log level %q, expected one of %s", c.Level, strings.Join(logLevels, ", "))
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = "json"
	}
	if !slices.Contains(logFormats, c.Format) {
		return fmt.Errorf("unknown log format %q, expected one of %s", c.Format, strings.Join(logFormats, ", "))
	}
	return nil
}
