package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

type Config struct {
	Sources    map[string]RequestSource
	Processors map[string]ResultProcessor
	Renderers  Renderers

	// Platforms are rendered for requests that name none. Empty means every
	// registered platform.
	Platforms []string

	Storage               Storage
	StorageFlushInterval  time.Duration
	StorageBufferMaxSize  uint
	RequestsBufferMaxSize uint
	ResultsBufferMaxSize  uint
	WorkersCount          uint

	// Clock stamps results. Defaults to time.Now.
	Clock func() time.Time
}

// Engine orchestrates request sources, renderers, processors and storage.
type Engine struct {
	cfg            Config
	logger         *slog.Logger
	storageManager *storageManager
}

func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:            cfg,
		logger:         logger,
		storageManager: newStorageManager(logger, cfg.Storage, cfg.StorageBufferMaxSize, cfg.StorageFlushInterval),
	}, nil
}

func (c Config) validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no request sources are configured")
	}

	for name, s := range c.Sources {
		for _, p := range s.ProcessorNames() {
			if _, ok := c.Processors[p]; !ok {
				return fmt.Errorf("source `%s` uses unknown processor `%s`", name, p)
			}
		}
	}

	if c.Renderers == nil {
		return errors.New("no renderers are configured")
	}

	for _, id := range c.Platforms {
		if _, err := c.Renderers.Get(id); err != nil {
			return fmt.Errorf("invalid default platform: %w", err)
		}
	}

	if c.Storage == nil {
		return errors.New("no result storage is configured")
	}

	if c.StorageBufferMaxSize == 0 && c.StorageFlushInterval == 0 {
		return errors.New("buffer max size and storage flush interval cannot both be zero")
	}

	if c.ResultsBufferMaxSize == 0 {
		return errors.New("results buffer max size cannot be zero")
	}

	if c.WorkersCount == 0 {
		return errors.New("workers count cannot be zero")
	}

	return nil
}

// Run blocks until every source is exhausted or ctx is done. Buffered results
// are flushed before it returns.
func (e *Engine) Run(ctx context.Context) error {
	requests := e.consumeRequests(ctx)

	var wg sync.WaitGroup
	results := make(chan entity.TranslationResult, e.cfg.ResultsBufferMaxSize)

	tm := newTranslatorManager(e.logger, e.cfg)

	storageCtx, stopStorage := context.WithCancel(ctx)
	defer stopStorage()

	// Storage manager handles buffering, and periodic saves.
	wg.Go(func() { e.storageManager.run(storageCtx) })
	// Translator manager handles fan-out pattern.
	wg.Go(func() { tm.run(ctx, requests, results) })

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				stopStorage()
				wg.Wait()
				return ctx.Err()
			}
			e.storageManager.add(ctx, res)
		}
	}
}

func (e *Engine) consumeRequests(ctx context.Context) <-chan entity.TranslationRequest {
	requests := make(chan entity.TranslationRequest, e.cfg.RequestsBufferMaxSize)
	e.logger.Info("created incoming requests channel.", "size", e.cfg.RequestsBufferMaxSize)

	var sourceWg sync.WaitGroup

	for n, s := range e.cfg.Sources {
		sourceWg.Add(1)
		go func(name string, src RequestSource) {
			defer sourceWg.Done()

			if err := src.Provide(ctx, requests); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Error("request source failed.", "name", name, "error", err)
			}
		}(n, s)
	}

	go func() {
		sourceWg.Wait()
		close(requests)
	}()

	return requests
}
