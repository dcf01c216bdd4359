// Package config loads the dltcat CLI's configuration: socket binding,
// output file handling, and the ambient logging/metrics/tracing knobs.
package config

import "fmt"

// MulticastConfig joins a multicast group on an optional interface.
type MulticastConfig struct {
	MultiAddr string `koanf:"multiaddr"`
	Interface string `koanf:"interface"`
}

// MetricsConfig configures the Prometheus metrics server. OTLPEndpoint is
// loaded but not read by anything: no trace exporter is configured, so
// pipeline spans are not exported.
type MetricsConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ListenAddr   string `koanf:"listen-addr"`
	OTLPEndpoint string `koanf:"otlp-endpoint"`
}

// Config stores dltcat's full runtime configuration.
type Config struct {
	Bind          string           `koanf:"bind"`
	Port          uint16           `koanf:"port"`
	Multicast     *MulticastConfig `koanf:"multicast"`
	Tag           string           `koanf:"tag"`
	ECUID         string           `koanf:"ecu-id"`
	OutPath       string           `koanf:"out"`
	Append        bool             `koanf:"append"`
	InitialLineNr uint64           `koanf:"initial-line"`
	ChunkLines    uint64           `koanf:"chunk-lines"`
	ChunkBytes    uint64           `koanf:"chunk-bytes"`
	LogLevel      LogLevel         `koanf:"log-level"`
	Metrics       MetricsConfig    `koanf:"metrics"`
}

// Default returns the configuration defaults handed to configulator.
func Default() Config {
	return Config{
		Bind:          "0.0.0.0",
		Port:          3490,
		Tag:           "dlt",
		ECUID:         "ECU1",
		OutPath:       "dlt.log",
		InitialLineNr: 0,
		ChunkLines:    1000,
		ChunkBytes:    1 << 20,
		LogLevel:      LogLevelInfo,
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},
	}
}

// Validate reports configuration errors that should prevent the pipeline
// from starting.
func (c Config) Validate() error {
	if c.Port == 0 {
		return fmt.Errorf("config: port must be non-zero")
	}
	if c.OutPath == "" {
		return fmt.Errorf("config: out path must be set")
	}
	if c.Tag == "" {
		return fmt.Errorf("config: tag must be set")
	}
	if c.Multicast != nil && c.Multicast.MultiAddr == "" {
		return fmt.Errorf("config: multicast.multiaddr must be set when multicast is configured")
	}
	return nil
}
