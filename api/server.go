package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

// Renderers is the renderer lookup the server needs. *registry.Registry satisfies it.
type Renderers interface {
	Get(id string) (render.Renderer, error)
	Details() []platform.Details
}

type server struct {
	cfg       Config
	logger    *slog.Logger
	renderers Renderers
}

func NewServer(cfg Config, logger *slog.Logger, renderers Renderers) (*server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if renderers == nil {
		return nil, errors.New("renderers are required")
	}

	return &server{
		cfg:       cfg,
		logger:    logger,
		renderers: renderers,
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthcheck", s.healthCheckHandler)
	mux.HandleFunc("GET /api/platforms", s.listPlatformsHandler)
	mux.HandleFunc("POST /api/translate", s.translateHandler)

	return s.recoverPanicMiddleware(s.requestLoggerMiddleware(s.corsMiddleware(mux)))
}

func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server", "addr", s.cfg.Addr)
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("failed to shutdown server", "addr", s.cfg.Addr, "error", err)
		}
	}()

	var serverErr error
	if s.cfg.CertFile != "" && s.cfg.KeyFile != "" {
		s.logger.Info("starting server with TLS", "addr", s.cfg.Addr)
		serverErr = srv.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
	} else {
		s.logger.Info("starting server without TLS", "addr", s.cfg.Addr)
		serverErr = srv.ListenAndServe()
	}

	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		return serverErr
	}

	return nil
}
