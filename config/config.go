// Package config loads learn2branch settings from YAML (or JSON) files and
// L2B_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bartolsthoorn/learn2branch/branch"
	"github.com/bartolsthoorn/learn2branch/dataset"
	"github.com/bartolsthoorn/learn2branch/highs"
	"github.com/bartolsthoorn/learn2branch/solver"
)

// Config is the full configuration of the command line tool.
type Config struct {
	// Branch contains search settings.
	Branch BranchConfig `json:"branch" yaml:"branch"`

	// HiGHS contains options passed to every LP solver instance.
	HiGHS HighsConfig `json:"highs" yaml:"highs"`

	// Dataset contains sample file settings.
	Dataset DatasetConfig `json:"dataset" yaml:"dataset"`

	// Collect contains dataset collection settings.
	Collect CollectConfig `json:"collect" yaml:"collect"`

	// Observability contains logging, tracing and metrics settings.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

type BranchConfig struct {
	Policy    string        `json:"policy" yaml:"policy" validate:"oneof=first most random"`
	Seed      uint64        `json:"seed" yaml:"seed"`
	NodeLimit int64         `json:"node_limit" yaml:"node_limit" validate:"gte=0"`
	TimeLimit time.Duration `json:"time_limit" yaml:"time_limit" validate:"gte=0s"`
	FeasTol   float64       `json:"feas_tol" yaml:"feas_tol" validate:"gt=0,lt=1"`
}

type HighsConfig struct {
	Threads int `json:"threads" yaml:"threads" validate:"gte=0"`
	// Options are raw HiGHS options; the value type selects the setter.
	Options map[string]any `json:"options" yaml:"options"`
}

type DatasetConfig struct {
	Codec string `json:"codec" yaml:"codec" validate:"oneof=none lz4 zstd"`
	Dir   string `json:"dir" yaml:"dir" validate:"required"`
}

type CollectConfig struct {
	Episodes    int `json:"episodes" yaml:"episodes" validate:"gte=1"`
	Parallelism int `json:"parallelism" yaml:"parallelism" validate:"gte=1,lte=256"`
}

type ObservabilityConfig struct {
	LogLevel      string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string `json:"log_format" yaml:"log_format" validate:"oneof=text json"`
	TraceExporter string `json:"trace_exporter" yaml:"trace_exporter" validate:"oneof=none stdout"`
	// MetricsAddr serves Prometheus metrics when set, e.g. ":9090".
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Branch: BranchConfig{
			Policy:  "most",
			Seed:    1,
			FeasTol: solver.DefaultFeasTol,
		},
		Dataset: DatasetConfig{
			Codec: "zstd",
			Dir:   "samples",
		},
		Collect: CollectConfig{
			Episodes:    1,
			Parallelism: 4,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogFormat:     "text",
			TraceExporter: "none",
		},
	}
}

// Load starts from Default, applies the file at path (if path is not empty
// and the file exists), then environment overrides, and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	parse := func(key string, set func(string) error) {
		if v := os.Getenv(key); v != "" {
			if err := set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	str("L2B_POLICY", &cfg.Branch.Policy)
	parse("L2B_SEED", func(v string) (err error) {
		cfg.Branch.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	})
	parse("L2B_NODE_LIMIT", func(v string) (err error) {
		cfg.Branch.NodeLimit, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	parse("L2B_TIME_LIMIT", func(v string) (err error) {
		cfg.Branch.TimeLimit, err = time.ParseDuration(v)
		return err
	})
	parse("L2B_HIGHS_THREADS", func(v string) (err error) {
		cfg.HiGHS.Threads, err = strconv.Atoi(v)
		return err
	})
	str("L2B_DATASET_CODEC", &cfg.Dataset.Codec)
	str("L2B_DATASET_DIR", &cfg.Dataset.Dir)
	parse("L2B_EPISODES", func(v string) (err error) {
		cfg.Collect.Episodes, err = strconv.Atoi(v)
		return err
	})
	parse("L2B_PARALLELISM", func(v string) (err error) {
		cfg.Collect.Parallelism, err = strconv.Atoi(v)
		return err
	})
	str("L2B_LOG_LEVEL", &cfg.Observability.LogLevel)
	str("L2B_LOG_FORMAT", &cfg.Observability.LogFormat)
	str("L2B_TRACE_EXPORTER", &cfg.Observability.TraceExporter)
	str("L2B_METRICS_ADDR", &cfg.Observability.MetricsAddr)

	return errors.Join(errs...)
}

var validate = validator.New()

// Validate checks field ranges and HiGHS option value types.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name, v := range c.HiGHS.Options {
		switch v.(type) {
		case bool, int, float64, string:
		default:
			return fmt.Errorf("highs option %q: unsupported value type %T", name, v)
		}
	}
	return nil
}

// SolveOptions converts the HiGHS section to solver options.
func (h HighsConfig) SolveOptions() []highs.SolveOption {
	var opts []highs.SolveOption
	if h.Threads > 0 {
		opts = append(opts, highs.WithThreads(h.Threads))
	}
	for name, v := range h.Options {
		switch v := v.(type) {
		case bool:
			opts = append(opts, highs.WithBoolOption(name, v))
		case int:
			opts = append(opts, highs.WithIntOption(name, v))
		case float64:
			opts = append(opts, highs.WithFloatOption(name, v))
		case string:
			opts = append(opts, highs.WithStringOption(name, v))
		}
	}
	return opts
}

// BranchOptions converts the search and HiGHS sections to branch options.
func (c Config) BranchOptions() []branch.Option {
	return []branch.Option{
		branch.WithNodeLimit(c.Branch.NodeLimit),
		branch.WithTimeLimit(c.Branch.TimeLimit),
		branch.WithFeasibilityTolerance(c.Branch.FeasTol),
		branch.WithHighsOptions(c.HiGHS.SolveOptions()...),
	}
}

// Policy returns the configured branching policy.
func (c Config) Policy() (branch.Func, error) {
	p, ok := branch.Policies(c.Branch.Seed)[c.Branch.Policy]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q", c.Branch.Policy)
	}
	return p, nil
}

// Codec returns the configured dataset codec.
func (c Config) Codec() (dataset.Codec, error) {
	return dataset.ParseCodec(c.Dataset.Codec)
}
