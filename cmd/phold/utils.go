package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pholdsim/phold/pkg/config"
)

// loadConfig loads the configuration from file, falling back to
// config.DefaultConfig when no path is given or the file does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyOverrides applies a list of "key=value" --set flags on top of cfg,
// in the order given.
func applyOverrides(cfg *config.Config, sets []string) error {
	for _, kv := range sets {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid --set value %q, want key=value", kv)
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if err := setField(cfg, key, value); err != nil {
			return fmt.Errorf("--set %s: %w", kv, err)
		}
	}
	return nil
}

func setField(cfg *config.Config, key, value string) error {
	switch key {
	case "remote":
		return setFloat(&cfg.Remote, value)
	case "minimum":
		return setFloat(&cfg.Minimum, value)
	case "average":
		return setFloat(&cfg.Average, value)
	case "stop":
		return setFloat(&cfg.Stop, value)
	case "number":
		return setInt(&cfg.Number, value)
	case "events":
		return setInt(&cfg.Events, value)
	case "buffer_bytes":
		return setInt(&cfg.BufferBytes, value)
	case "partitions":
		return setInt(&cfg.Partitions, value)
	case "verbosity":
		return setInt(&cfg.Verbosity, value)
	case "delays_out":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		cfg.DelaysOut = b
		return nil
	case "report_path":
		cfg.ReportPath = value
		return nil
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
