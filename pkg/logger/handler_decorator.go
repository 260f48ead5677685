package logger

import (
	"context"
	"log/slog"
	"slices"
)

// ContextExtractor pulls one attribute out of the context a record is logged
// with, for example the request id stored by the requestid middleware.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler appends extracted attributes to each record before passing
// it on. Records logged through the non-Context slog methods carry
// context.Background, so request-scoped extractors add nothing to them.
type contextHandler struct {
	slog.Handler
	extract []ContextExtractor
}

// newContextHandler returns h unchanged when no usable extractor is given.
func newContextHandler(h slog.Handler, extractors []ContextExtractor) slog.Handler {
	extract := slices.DeleteFunc(slices.Clone(extractors), func(e ContextExtractor) bool { return e == nil })
	if len(extract) == 0 {
		return h
	}
	return &contextHandler{Handler: h, extract: extract}
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, fn := range h.extract {
			if attr, ok := fn(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extract: h.extract}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extract: h.extract}
}
