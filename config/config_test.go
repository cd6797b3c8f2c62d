package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
logger:
  level: warn
  type: json
platforms:
  enabled: [sentinel-kql-query, logrhythm-siem-rule, qradar-aql-query]
  default: [sentinel-kql-query]
  logrhythm:
    text_decomposition: true
api:
  addr: localhost:8000
  cors:
    trusted_origins: ["https://uncoder.example"]
storage:
  type: clickhouse
  config:
    addr: ["localhost:9000"]
    database: uncoder
processors:
  - name: disable
    type: json
    config:
      platforms: [sentinel-kql-rule]
      set:
        enabled: false
  - name: banner
    type: lua
    config:
      script: |
        function post_process(platform, output)
          return "// " .. platform .. "\n" .. output
        end
sources:
  - name: inbox
    type: file
    processors: [banner]
    config:
      path: /var/lib/uncoder/requests.jsonl
      from_start: true
requests_buffer_size: 10
results_buffer_size: 20
storage_buffer_size: 100
storage_flush_interval: 5s
translator_workers_count: 4
`

func TestLoadAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", cfg.API.Addr)
	assert.Equal(t, []string{"https://uncoder.example"}, cfg.API.CORS.TrustedOrigins)
	assert.Equal(t, 5*time.Second, cfg.StorageFlushInterval)

	engineCfg, logger, err := cfg.Parse()
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Equal(t, []string{"logrhythm-siem-rule", "qradar-aql-query", "sentinel-kql-query"}, engineCfg.Renderers.IDs())
	assert.Equal(t, []string{"sentinel-kql-query"}, engineCfg.Platforms)
	assert.Len(t, engineCfg.Processors, 2)
	assert.Contains(t, engineCfg.Sources, "inbox")
	assert.Equal(t, []string{"banner"}, engineCfg.Sources["inbox"].ProcessorNames())
	assert.NotNil(t, engineCfg.Storage)
	assert.Equal(t, uint(4), engineCfg.WorkersCount)
	assert.Equal(t, uint(100), engineCfg.StorageBufferMaxSize)
}

func TestParseErrors(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{Type: "clickhouse", Config: map[string]any{"addr": []string{"localhost:9000"}}},
		}
	}

	tests := map[string]func(*Config){
		"log level":        func(c *Config) { c.Logger.Level = "loud" },
		"log type":         func(c *Config) { c.Logger.Type = "xml" },
		"unknown platform": func(c *Config) { c.Platforms.Enabled = []string{"splunk"} },
		"storage type":     func(c *Config) { c.Storage.Type = "postgres" },
		"storage address":  func(c *Config) { c.Storage.Config = map[string]any{} },
		"processor type":   func(c *Config) { c.Processors = []ProcessorConfig{{Name: "p", Type: "xslt"}} },
		"empty patch":      func(c *Config) { c.Processors = []ProcessorConfig{{Name: "p", Type: "json"}} },
		"duplicate processor": func(c *Config) {
			p := ProcessorConfig{Name: "p", Type: "json", Config: map[string]any{"set": map[string]any{"enabled": false}}}
			c.Processors = []ProcessorConfig{p, p}
		},
		"source type": func(c *Config) { c.Sources = []SourceConfig{{Name: "s", Type: "kafka"}} },
		"source path": func(c *Config) { c.Sources = []SourceConfig{{Name: "s", Type: "file"}} },
	}

	for name, mutate := range tests {
		cfg := valid()
		mutate(&cfg)

		_, _, err := cfg.Parse()
		assert.Error(t, err, name)
	}
}

func TestRegistryDefaultsToEveryPlatform(t *testing.T) {
	reg, err := Config{}.Registry()
	require.NoError(t, err)
	assert.Len(t, reg.IDs(), 7)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
