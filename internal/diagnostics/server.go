package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownGrace     = 3 * time.Second
)

// Serve listens on cfg.Addr and answers diagnostics requests until ctx ends.
func Serve(ctx context.Context, cfg Config) error {
	if cfg.Addr == "" {
		return errors.New("diagnostics: listen address is required")
	}
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("diagnostics: listen %s: %w", cfg.Addr, err)
	}
	return serveListener(ctx, listener, cfg)
}

// serveListener owns listener and closes it on return.
func serveListener(ctx context.Context, listener net.Listener, cfg Config) error {
	handler, err := NewHandler(cfg)
	if err != nil {
		_ = listener.Close()
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("addr", listener.Addr().String()))

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	stopped := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("diagnostics shutdown incomplete", zap.Error(err))
		}
	})
	defer stopped()

	logger.Info("diagnostics listening")
	err = server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("diagnostics stopped")
		return nil
	}
	return err
}
