package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/learn2branch/dataset"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "l2b.yaml", `
branch:
  policy: random
  seed: 42
  node_limit: 500
  time_limit: 30s
highs:
  threads: 2
  options:
    simplex_strategy: 4
    primal_feasibility_tolerance: 1.0e-7
    output_flag: false
dataset:
  codec: lz4
collect:
  episodes: 10
  parallelism: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "random", cfg.Branch.Policy)
	assert.Equal(t, uint64(42), cfg.Branch.Seed)
	assert.Equal(t, int64(500), cfg.Branch.NodeLimit)
	assert.Equal(t, 30*time.Second, cfg.Branch.TimeLimit)
	assert.Equal(t, 10, cfg.Collect.Episodes)
	assert.Len(t, cfg.HiGHS.SolveOptions(), 4)
	assert.Len(t, cfg.BranchOptions(), 4)

	codec, err := cfg.Codec()
	require.NoError(t, err)
	assert.Equal(t, dataset.CodecLZ4, codec)

	_, err = cfg.Policy()
	assert.NoError(t, err)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "l2b.json", `{"branch": {"policy": "first", "feas_tol": 1e-6}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Branch.Policy)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("L2B_POLICY", "first")
	t.Setenv("L2B_NODE_LIMIT", "7")
	t.Setenv("L2B_TIME_LIMIT", "1m")
	t.Setenv("L2B_PARALLELISM", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Branch.Policy)
	assert.Equal(t, int64(7), cfg.Branch.NodeLimit)
	assert.Equal(t, time.Minute, cfg.Branch.TimeLimit)
	assert.Equal(t, 8, cfg.Collect.Parallelism)
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("L2B_NODE_LIMIT", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "L2B_NODE_LIMIT")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"policy":      func(c *Config) { c.Branch.Policy = "strong" },
		"node limit":  func(c *Config) { c.Branch.NodeLimit = -1 },
		"feas tol":    func(c *Config) { c.Branch.FeasTol = 0 },
		"codec":       func(c *Config) { c.Dataset.Codec = "gzip" },
		"parallelism": func(c *Config) { c.Collect.Parallelism = 0 },
		"log level":   func(c *Config) { c.Observability.LogLevel = "trace" },
		"exporter":    func(c *Config) { c.Observability.TraceExporter = "otlp" },
		"option type": func(c *Config) { c.HiGHS.Options = map[string]any{"x": []int{1}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
