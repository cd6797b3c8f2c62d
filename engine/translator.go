package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

// ResultProcessor is an interface that defines the contract for post-render processors.
type ResultProcessor interface {
	Process(result entity.TranslationResult) (entity.TranslationResult, error)
}

// translatorManager fans requests out to workers. Every worker renders a
// request for each of its platforms and runs the source's processors on
// every result.
type translatorManager struct {
	renderers    Renderers
	platforms    []string
	sources      map[string]RequestSource
	processors   map[string]ResultProcessor
	logger       *slog.Logger
	workersCount uint
	now          func() time.Time
	wg           sync.WaitGroup
}

func newTranslatorManager(logger *slog.Logger, cfg Config) *translatorManager {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &translatorManager{
		renderers:    cfg.Renderers,
		platforms:    cfg.Platforms,
		sources:      cfg.Sources,
		processors:   cfg.Processors,
		logger:       logger,
		workersCount: cfg.WorkersCount,
		now:          now,
	}
}

// run returns once requests is drained or ctx is done. results is closed on return.
func (tm *translatorManager) run(ctx context.Context, requests <-chan entity.TranslationRequest, results chan<- entity.TranslationResult) {
	defer close(results)

	spawnWorker := func(workerId uint) {
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-requests:
				if !ok {
					return
				}

				for _, platformID := range tm.platformsOf(req) {
					res := tm.translate(req, platformID)

					tm.logger.Debug("rendered request", "worker_id", workerId, "request_id", req.ID, "platform", platformID, "status", res.Status.String())

					select {
					case results <- res:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}

	for i := uint(0); i < tm.workersCount; i++ {
		tm.wg.Go(func() {
			spawnWorker(i)
		})
	}

	tm.wg.Wait()
}

func (tm *translatorManager) platformsOf(req entity.TranslationRequest) []string {
	switch {
	case len(req.Platforms) > 0:
		return req.Platforms
	case len(tm.platforms) > 0:
		return tm.platforms
	default:
		return tm.renderers.IDs()
	}
}

func (tm *translatorManager) translate(req entity.TranslationRequest, platformID string) entity.TranslationResult {
	res := Translate(tm.renderers, req, platformID, tm.now())
	if res.Status == entity.ResultStatusFailed {
		tm.logger.Warn("failed to render request", "request_id", req.ID, "platform", platformID, "error", res.Error)
		return res
	}

	src, ok := tm.sources[req.Source]
	if !ok {
		return res
	}

	for _, pName := range src.ProcessorNames() {
		p := tm.processors[pName]
		if p == nil {
			tm.logger.Warn("processor not found", "processor", pName)
			continue
		}

		processed, err := p.Process(res)
		if err != nil {
			tm.logger.Error("failed to process result", "processor", pName, "platform", platformID, "error", err)
			continue
		}

		res = processed
	}

	return res
}
