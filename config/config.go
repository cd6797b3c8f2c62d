package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/api"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/engine"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/all"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/logrhythm"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/processor"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/registry"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/source"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/storage"
	"github.com/lmittmann/tint"
	"go.yaml.in/yaml/v3"
)

type Config struct {
	Logger                 LoggerConfig      `yaml:"logger"`
	Platforms              PlatformsConfig   `yaml:"platforms"`
	API                    api.Config        `yaml:"api"`
	Storage                StorageConfig     `yaml:"storage"`
	Processors             []ProcessorConfig `yaml:"processors"`
	Sources                []SourceConfig    `yaml:"sources"`
	RequestsBufferSize     uint              `yaml:"requests_buffer_size"`
	ResultsBufferSize      uint              `yaml:"results_buffer_size"`
	StorageBufferSize      uint              `yaml:"storage_buffer_size"`
	StorageFlushInterval   time.Duration     `yaml:"storage_flush_interval"`
	TranslatorWorkersCount uint              `yaml:"translator_workers_count"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Type  string `yaml:"type"`
}

type PlatformsConfig struct {
	// Enabled limits the registry to these ids. Empty enables every platform.
	Enabled []string `yaml:"enabled"`

	// Default are rendered for requests that name no platform.
	Default []string `yaml:"default"`

	LogRhythm LogRhythmConfig `yaml:"logrhythm"`
}

type LogRhythmConfig struct {
	TextDecomposition bool `yaml:"text_decomposition"`
}

type StorageConfig struct {
	Type   string `yaml:"type"`
	Config any    `yaml:"config"`
}

type ProcessorConfig struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Config any    `yaml:"config"`
}

type SourceConfig struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Processors []string `yaml:"processors"`
	Config     any      `yaml:"config"`
}

// Load reads and decodes a YAML config file.
func Load(path string) (Config, error) {
	var cfg Config

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config file content: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file: %w", err)
	}

	return cfg, nil
}

// Parse builds the engine configuration. The logger is returned as soon as it
// exists so callers can report later failures with it.
func (cfg Config) Parse() (*engine.Config, *slog.Logger, error) {
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create logger: %w", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, logger, fmt.Errorf("cannot create platform registry: %w", err)
	}

	st, err := parseStorageConfig(cfg.Storage)
	if err != nil {
		return nil, logger, fmt.Errorf("cannot create storage: %w", err)
	}

	processors := make(map[string]engine.ResultProcessor, len(cfg.Processors))
	for _, pc := range cfg.Processors {
		if _, ok := processors[pc.Name]; ok {
			return nil, logger, fmt.Errorf("duplicate processor name `%s`", pc.Name)
		}
		p, err := parseProcessorConfig(pc)
		if err != nil {
			return nil, logger, fmt.Errorf("cannot create processor `%s`: %w", pc.Name, err)
		}
		processors[pc.Name] = p
	}

	sources := make(map[string]engine.RequestSource, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if _, ok := sources[sc.Name]; ok {
			return nil, logger, fmt.Errorf("duplicate source name `%s`", sc.Name)
		}
		s, err := parseSourceConfig(logger, sc)
		if err != nil {
			return nil, logger, fmt.Errorf("cannot create source `%s`: %w", sc.Name, err)
		}
		sources[sc.Name] = s
	}

	return &engine.Config{
		Sources:               sources,
		Processors:            processors,
		Renderers:             reg,
		Platforms:             cfg.Platforms.Default,
		Storage:               st,
		StorageFlushInterval:  cfg.StorageFlushInterval,
		StorageBufferMaxSize:  cfg.StorageBufferSize,
		RequestsBufferMaxSize: cfg.RequestsBufferSize,
		ResultsBufferMaxSize:  cfg.ResultsBufferSize,
		WorkersCount:          cfg.TranslatorWorkersCount,
	}, logger, nil
}

// Registry builds the renderers enabled by the platforms section.
func (cfg Config) Registry() (*registry.Registry, error) {
	var opts []all.Option
	if cfg.Platforms.LogRhythm.TextDecomposition {
		opts = append(opts, all.WithLogRhythmRule(logrhythm.WithTextDecomposition()))
	}

	reg, err := all.Registry(opts...)
	if err != nil {
		return nil, err
	}

	return reg.Subset(cfg.Platforms.Enabled...)
}

func (cfg Config) NewLogger() (*slog.Logger, error) {
	var level slog.Level
	switch cfg.Logger.Level {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.Logger.Level)
	}

	var handler slog.Handler

	w := os.Stdout
	switch cfg.Logger.Type {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text", "":
		handler = tint.NewHandler(w, &tint.Options{Level: level, AddSource: true, TimeFormat: time.Kitchen})
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Logger.Type)
	}

	return slog.New(handler), nil
}

func parseStorageConfig(cfg StorageConfig) (engine.Storage, error) {
	switch cfg.Type {
	case "clickhouse":
		var clickHouseConfig storage.ClickHouseStorageConfig

		if err := remarshal(cfg.Config, &clickHouseConfig); err != nil {
			return nil, fmt.Errorf("cannot parse clickhouse storage config: %w", err)
		}

		s, err := storage.NewClickHouseStorage(clickHouseConfig)
		if err != nil {
			return nil, fmt.Errorf("cannot create clickhouse storage: %w", err)
		}

		return s, nil

	default:
		return nil, fmt.Errorf("invalid storage type: %s", cfg.Type)
	}
}

func parseSourceConfig(logger *slog.Logger, cfg SourceConfig) (engine.RequestSource, error) {
	switch cfg.Type {
	case "file":
		var fileConfig source.FileRequestSourceConfig
		if err := remarshal(cfg.Config, &fileConfig); err != nil {
			return nil, fmt.Errorf("cannot parse file source config: %w", err)
		}

		fileConfig.Name = cfg.Name
		fileConfig.ProcessorNames = cfg.Processors

		s, err := source.NewFileRequestSource(logger, fileConfig)
		if err != nil {
			return nil, fmt.Errorf("cannot create file source: %w", err)
		}

		return s, nil
	default:
		return nil, fmt.Errorf("invalid request source type: %s", cfg.Type)
	}
}

func parseProcessorConfig(cfg ProcessorConfig) (engine.ResultProcessor, error) {
	switch cfg.Type {
	case "json":
		var jsonConfig processor.JsonPatchProcessorConfig
		if err := remarshal(cfg.Config, &jsonConfig); err != nil {
			return nil, fmt.Errorf("cannot parse json processor config: %w", err)
		}

		jsonConfig.Name = cfg.Name

		p, err := processor.NewJsonPatchProcessor(jsonConfig)
		if err != nil {
			return nil, fmt.Errorf("cannot create json processor: %w", err)
		}

		return p, nil
	case "lua":
		var luaConfig processor.LuaResultProcessorConfig
		if err := remarshal(cfg.Config, &luaConfig); err != nil {
			return nil, fmt.Errorf("cannot parse lua processor config: %w", err)
		}

		luaConfig.Name = cfg.Name

		p, err := processor.NewLuaResultProcessor(luaConfig)
		if err != nil {
			return nil, fmt.Errorf("cannot create lua processor: %w", err)
		}

		return p, nil
	default:
		return nil, fmt.Errorf("invalid result processor type: %s", cfg.Type)
	}
}

// remarshal takes an input value, marshals it to YAML, and then unmarshals it into a new value of the same type.
// This is useful for converting generic interfaces (like map[string]any) into concrete struct types.
// The output parameter must be a pointer to the target type.
func remarshal(input any, output any) error {
	yamlBytes, err := yaml.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal to YAML: %w", err)
	}

	if err := yaml.Unmarshal(yamlBytes, output); err != nil {
		return fmt.Errorf("failed to unmarshal from YAML: %w", err)
	}

	return nil
}
