package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

// Storage represents a storage interface for the engine.
type Storage interface {
	StoreResults(ctx context.Context, results ...entity.TranslationResult) error
}

// storageManager buffers results and flushes them to storage.
// Note that you should never disable buffering and scheduled flushing together.
type storageManager struct {
	storage     Storage
	logger      *slog.Logger
	buffer      []entity.TranslationResult
	bufferMutex sync.Mutex
	wg          sync.WaitGroup

	// bufferMaxSize defines the maximum items that buffer holds before flushing.
	// If value is reached, buffer will be flushed immediately.
	// Setting this to zero will disable buffering.
	bufferMaxSize uint

	// flushInterval defines the interval at which buffer will be flushed.
	// Setting flushInterval to 0 will disable scheduled flushing.
	flushInterval time.Duration
}

func newStorageManager(logger *slog.Logger, storage Storage, bufferMaxSize uint, flushInterval time.Duration) *storageManager {
	return &storageManager{
		logger:        logger,
		storage:       storage,
		bufferMaxSize: bufferMaxSize,
		buffer:        make([]entity.TranslationResult, 0, bufferMaxSize),
		flushInterval: flushInterval,
	}
}

// run flushes on every tick. When ctx is done the remaining buffer is flushed
// without the cancelled context and run waits for pending writes.
func (sm *storageManager) run(ctx context.Context) {
	var tick <-chan time.Time

	if sm.flushInterval > 0 {
		ticker := time.NewTicker(sm.flushInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			sm.flush(context.WithoutCancel(ctx))
			sm.wg.Wait()
			return
		// A nil channel blocks forever, which disables scheduled flushing.
		case <-tick:
			sm.flush(ctx)
		}
	}
}

func (sm *storageManager) flush(ctx context.Context) {
	var toFlush []entity.TranslationResult

	sm.bufferMutex.Lock()
	if len(sm.buffer) > 0 {
		toFlush = sm.buffer
		sm.buffer = make([]entity.TranslationResult, 0, sm.bufferMaxSize)
	}
	sm.bufferMutex.Unlock()

	if len(toFlush) > 0 {
		sm.store(ctx, toFlush)
	}
}

func (sm *storageManager) store(ctx context.Context, toFlush []entity.TranslationResult) {
	sm.wg.Go(func() {
		if err := sm.storage.StoreResults(ctx, toFlush...); err != nil {
			sm.logger.Error("failed to flush translation results", "count", len(toFlush), "error", err)
			return
		}

		sm.logger.Debug("flushed translation results", "count", len(toFlush))
	})
}

func (sm *storageManager) add(ctx context.Context, results ...entity.TranslationResult) {
	if len(results) == 0 {
		return
	}

	var toFlush []entity.TranslationResult

	sm.bufferMutex.Lock()
	sm.buffer = append(sm.buffer, results...)

	if sm.bufferMaxSize > 0 && uint(len(sm.buffer)) >= sm.bufferMaxSize {
		toFlush = sm.buffer
		sm.buffer = make([]entity.TranslationResult, 0, sm.bufferMaxSize)
	}
	sm.bufferMutex.Unlock()

	if toFlush != nil {
		sm.store(ctx, toFlush)
	}
}
