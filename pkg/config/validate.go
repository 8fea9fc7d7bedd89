package config

import (
	"fmt"

	"github.com/pholdsim/phold/pkg/pholderr"
)

// Validation accumulates the result of Validate: fatal Errors and non-fatal
// Warnings.
type Validation struct {
	Errors   []string
	Warnings []string
}

// OK reports whether validation produced no fatal errors.
func (v *Validation) OK() bool {
	return len(v.Errors) == 0
}

// Err collapses Errors into a single wrapped pholderr.ErrConfigInvalid, or
// nil if there were none.
func (v *Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w: %v", pholderr.ErrConfigInvalid, v.Errors)
}

// Validate checks the configuration against its rejection rules and
// computes the duty-factor warning.
func (c *Config) Validate() *Validation {
	v := &Validation{}

	if c.Number < 2 {
		v.Errors = append(v.Errors, fmt.Sprintf("number must be >= 2, got %d", c.Number))
	}
	if c.Minimum <= 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("minimum must be > 0, got %v", c.Minimum))
	}
	if c.Average <= 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("average must be > 0, got %v", c.Average))
	}
	if c.Stop <= 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("stop must be > 0, got %v", c.Stop))
	}
	if c.Events < 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("events must be >= 1, got %d", c.Events))
	}
	if c.Remote < 0 || c.Remote > 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("remote must be in [0, 1], got %v", c.Remote))
	}
	if c.Partitions < 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("partitions must be >= 1, got %d", c.Partitions))
	}
	if c.Partitions > c.Number && c.Number >= 2 {
		v.Errors = append(v.Errors, fmt.Sprintf("partitions (%d) must not exceed number (%d)", c.Partitions, c.Number))
	}

	if !v.OK() {
		return v
	}

	if df := c.DutyFactor(); float64(c.Events)*df < 10 {
		minEvents := c.MinEventsRecommended()
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"events=%d gives a low duty-adjusted event count (%.2f); consider min_events=%d",
			c.Events, float64(c.Events)*df, minEvents))
	}

	return v
}
