// Package scheduler dispara un handler cada intervalo fijo, sin solapamiento.
//
// Contrato de cada tick: se llama al handler con un contexto acotado por
// Timeout, se espera a que vuelva y después se duerme lo que falte del
// intervalo. Si el tick se pasó del intervalo el siguiente arranca enseguida.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

type Handler func(ctx context.Context) error

type Config struct {
	Name     string        // label para logs/métricas (rotation|player)
	Interval time.Duration
	Timeout  time.Duration // 0 = Interval
}

type Scheduler struct {
	cfg     Config
	handler Handler
	log     *slog.Logger

	// reemplazables en tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(cfg Config, h Handler) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("scheduler: interval must be > 0")
	}
	if h == nil {
		return nil, errors.New("scheduler: handler required")
	}
	if cfg.Timeout <= 0 || cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	if cfg.Name == "" {
		cfg.Name = "poll"
	}
	return &Scheduler{
		cfg:     cfg,
		handler: h,
		log:     slog.Default().With(slog.String("component", "scheduler"), slog.String("service", cfg.Name)),
		now:     time.Now,
		sleep:   sleepCtx,
	}, nil
}

// Run bloquea hasta que ctx se cancela. El primer tick es inmediato.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", slog.Duration("interval", s.cfg.Interval), slog.Duration("timeout", s.cfg.Timeout))
	for {
		if ctx.Err() != nil {
			s.log.Info("scheduler stopped")
			return
		}
		start := s.now()
		s.tick(ctx)
		elapsed := s.now().Sub(start)

		wait := s.cfg.Interval - elapsed
		if wait <= 0 {
			s.log.Warn("tick overran interval, starting next immediately", slog.Duration("elapsed", elapsed))
			continue
		}
		if !s.sleep(ctx, wait) {
			s.log.Info("scheduler stopped")
			return
		}
	}
}

// tick corre el handler una vez. Errores y panics se loguean y nada más.
func (s *Scheduler) tick(parent context.Context) {
	id := uuid.NewString()
	ctx := telemetry.WithTickID(parent, id)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, s.cfg.Name+".tick", attribute.String("service", s.cfg.Name))
	defer span.End()

	log := telemetry.Logger(ctx, s.log)
	start := s.now()

	err := s.safeCall(ctx)
	d := s.now().Sub(start)
	telemetry.ObserveTick(s.cfg.Name, d, err)

	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("tick failed", slog.Any("err", err), slog.Duration("took", d))
		return
	}
	log.Debug("tick done", slog.Duration("took", d))
}

func (s *Scheduler) safeCall(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in tick: %v", rec)
		}
	}()
	return s.handler(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
