package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

type FileRequestSourceConfig struct {
	Name           string   `yaml:"-"`
	ProcessorNames []string `yaml:"-"`
	FilePath       string   `yaml:"path"`

	// FromStart reads the lines already in the file before tailing it.
	FromStart bool `yaml:"from_start"`
}

// FileRequestSource works by watching a file for changes and reading new
// JSON lines as they are written. Every line is one translation request.
type FileRequestSource struct {
	cfg    FileRequestSourceConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewFileRequestSource creates a new FileRequestSource instance.
func NewFileRequestSource(logger *slog.Logger, cfg FileRequestSourceConfig) (*FileRequestSource, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	return &FileRequestSource{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (f *FileRequestSource) Name() string {
	return f.cfg.Name
}

func (f *FileRequestSource) ProcessorNames() []string {
	return f.cfg.ProcessorNames
}

func (f *FileRequestSource) Provide(ctx context.Context, requests chan<- entity.TranslationRequest) error {
	file, err := os.Open(f.cfg.FilePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	// Reading a notified write moves the cursor to the end again.
	if !f.cfg.FromStart {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.cfg.FilePath); err != nil {
		return fmt.Errorf("cannot add file to watcher: %w", err)
	}

	reader := bufio.NewReader(file)

	if f.cfg.FromStart {
		if err := f.readLines(ctx, reader, requests); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				f.logger.Debug("fsnotify watcher channel is closed.")
				return nil
			}
			if !event.Has(fsnotify.Write) {
				// TODO: reopen the file when it is replaced by a rename, editors like vim do that on save.
				f.logger.Debug("Received unhandled event from fsnotify.", "event", event.String())
				continue
			}

			if err := f.readLines(ctx, reader, requests); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// readLines sends every line up to EOF.
func (f *FileRequestSource) readLines(ctx context.Context, reader *bufio.Reader, requests chan<- entity.TranslationRequest) error {
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			f.send(ctx, line, requests)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (f *FileRequestSource) send(ctx context.Context, line []byte, requests chan<- entity.TranslationRequest) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	req, err := ParseRequest(line, f.cfg.Name, f.now())
	if err != nil {
		f.logger.Warn("skipping invalid translation request.", "source", f.cfg.Name, "error", err)
		return
	}

	select {
	case requests <- req:
	case <-ctx.Done():
	}
}
