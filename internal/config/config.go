package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/abgdnv/productcatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Mongo      config.MongoConfig      `koanf:"mongo"`
	Elastic    config.ElasticConfig    `koanf:"elastic"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Reindex    config.ReindexConfig    `koanf:"reindex"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Mongo.String())
	b.WriteString(c.Elastic.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Reindex.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Telemetry.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []struct {
		section string
		v       configloader.Validator
	}{
		{"server", &c.HTTPServer},
		{"mongo", &c.Mongo},
		{"elastic", &c.Elastic},
		{"nats", &c.Nats},
		{"resilience", &c.Resilience},
		{"reindex", &c.Reindex},
		{"log", &c.Log},
		{"pprof", &c.PProf},
		{"shutdown", &c.Shutdown},
		{"telemetry", &c.Telemetry},
	}
	for _, s := range validators {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.section, err)
		}
	}
	return nil
}
