package utils

import (
	"context"
	"errors"
	"log/slog"
)

// TeeLogHandler fans one slog record out to several handlers, so the CLI
// can log to the terminal and a file at once.
type TeeLogHandler struct {
	handlers []slog.Handler
}

func NewTeeLogHandler(handlers ...slog.Handler) *TeeLogHandler {
	return &TeeLogHandler{handlers: handlers}
}

func (h *TeeLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *TeeLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *TeeLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return NewTeeLogHandler(next...)
}

func (h *TeeLogHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return NewTeeLogHandler(next...)
}
