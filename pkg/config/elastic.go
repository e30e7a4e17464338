package config

import (
	"fmt"
	"strings"
	"time"
)

type ElasticConfig struct {
	Addresses  []string      `koanf:"addresses"`
	Username   string        `koanf:"username"`
	Password   string        `koanf:"password"`
	CACertFile string        `koanf:"cacertfile"`
	Index      string        `koanf:"index"`
	Timeout    time.Duration `koanf:"timeout"`
	Refresh    string        `koanf:"refresh"`
	MaxResults int           `koanf:"maxresults"`
}

// String returns a string representation of the Elasticsearch configuration.
func (c *ElasticConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Elasticsearch ---\n")
	b.WriteString(fmt.Sprintf("  addresses: %s\n", strings.Join(c.Addresses, ",")))
	b.WriteString(fmt.Sprintf("  username: %s\n", c.Username))
	if c.Password != "" {
		b.WriteString("  password: ****\n")
	}
	b.WriteString(fmt.Sprintf("  cacertfile: %s\n", c.CACertFile))
	b.WriteString(fmt.Sprintf("  index: %s\n", c.Index))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  refresh: %s\n", c.Refresh))
	b.WriteString(fmt.Sprintf("  maxresults: %d\n", c.MaxResults))
	return b.String()
}

func (c *ElasticConfig) Validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("elasticsearch addresses are not configured")
	}
	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("elasticsearch username and password must be set together")
	}
	if c.Index == "" {
		c.Index = "products"
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("elasticsearch timeout is not configured")
	}
	switch c.Refresh {
	case "", "true", "false", "wait_for":
	default:
		return fmt.Errorf("invalid elasticsearch refresh policy: %q", c.Refresh)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("elasticsearch maxresults must not be negative")
	}
	return nil
}
