package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/metrics"
	"github.com/roach88/qaco/internal/store"
)

// session wires one engine for a single command: logger, metrics and, when a
// database is configured, the run log.
type session struct {
	engine      *engine.Engine
	store       *store.Store
	metrics     *metrics.Recorder
	metricsFile string
	logger      *zap.Logger
}

func (o *RootOptions) openSession(strategy engine.Strategy) (*session, error) {
	s := &session{
		metrics:     metrics.New(),
		metricsFile: o.MetricsFile,
		logger:      o.logger(),
	}
	engineOpts := []engine.Option{
		engine.WithLogger(s.logger),
		engine.WithMetrics(s.metrics),
	}

	if o.DBPath != "" {
		st, err := store.Open(o.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open run log: %w", err)
		}
		s.store = st
		engineOpts = append(engineOpts, engine.WithRecorder(st))
		s.logger.Debug("run log enabled", zap.String("path", o.DBPath))
	}

	s.engine = engine.New(strategy, engineOpts...)
	return s, nil
}

// close flushes metrics and closes the run log. It only replaces a nil err so
// the command's own failure is never masked.
func (s *session) close(err *error) {
	var errs []error
	if s.metricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.metricsFile); werr != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", werr))
		}
	}
	if s.store != nil {
		if cerr := s.store.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close run log: %w", cerr))
		}
	}
	if joined := errors.Join(errs...); joined != nil && *err == nil {
		*err = WrapExitError(ExitCommandError, "finish command", joined)
	}
}
