package engine

import "fmt"

// Config contains EthicsEngine configuration.
type Config struct {
	// AuditCapacity is the maximum number of audit records retained.
	// Oldest records are evicted first. Default: 1000.
	AuditCapacity int

	// StatsTail is the number of recent audit records included in Stats.
	// Default: 10.
	StatsTail int

	// Metrics receives evaluation telemetry. Nil disables metrics.
	Metrics MetricsSink
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		AuditCapacity: 1000,
		StatsTail:     10,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.AuditCapacity <= 0 {
		return fmt.Errorf("audit capacity must be positive, got %d", c.AuditCapacity)
	}
	if c.StatsTail < 0 {
		return fmt.Errorf("stats tail must be non-negative, got %d", c.StatsTail)
	}
	return nil
}
