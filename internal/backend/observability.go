package backend

import (
	"context"
	"log/slog"
)

// CallEvent records one backend request.
type CallEvent struct {
	Method     string
	Endpoint   string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about backend calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// SlogObserver writes call events to a structured logger.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates an Observer that logs events to logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnCallComplete(event CallEvent) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("method", event.Method),
		slog.String("endpoint", event.Endpoint),
		slog.Int("status", event.StatusCode),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if !event.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error_code", event.ErrorCode))
	}
	o.logger.LogAttrs(context.Background(), level, "backend_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
