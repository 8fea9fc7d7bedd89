package config

import "testing"

func validConfig() *Config {
	return &Config{
		Remote:     0.5,
		Minimum:    1e-6,
		Average:    9e-6,
		Stop:       1e-3,
		Number:     4,
		Events:     20,
		Partitions: 1,
	}
}

func TestValidateAccepts(t *testing.T) {
	c := validConfig()
	v := c.Validate()
	if !v.OK() {
		t.Fatalf("expected valid config, got errors: %v", v.Errors)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Number = 1 },
		func(c *Config) { c.Minimum = 0 },
		func(c *Config) { c.Average = -1 },
		func(c *Config) { c.Stop = 0 },
		func(c *Config) { c.Events = 0 },
		func(c *Config) { c.Remote = 1.5 },
		func(c *Config) { c.Remote = -0.1 },
		func(c *Config) { c.Partitions = 0 },
	}
	for i, mutate := range cases {
		c := validConfig()
		mutate(c)
		if v := c.Validate(); v.OK() {
			t.Errorf("case %d: expected validation to reject config %+v", i, c)
		}
	}
}

func TestValidateWarnsLowDutyFactor(t *testing.T) {
	c := validConfig()
	c.Events = 1
	v := c.Validate()
	if !v.OK() {
		t.Fatalf("expected valid config, got errors: %v", v.Errors)
	}
	if len(v.Warnings) == 0 {
		t.Fatal("expected a low-duty-factor warning")
	}
}

func TestDerivedQuantities(t *testing.T) {
	c := validConfig()
	df := c.DutyFactor()
	if df <= 0 || df >= 1 {
		t.Fatalf("duty factor out of range: %v", df)
	}
	if c.ExpectedEvents() <= 0 {
		t.Fatalf("expected positive expected-events, got %v", c.ExpectedEvents())
	}
}
