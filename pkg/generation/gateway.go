package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

// Completer is a text-generation backend.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Gateway applies the instruction for a kind and calls the Completer.
type Gateway struct {
	completer Completer
	log       *slog.Logger
}

// NewGateway panics when completer is nil.
func NewGateway(completer Completer, log *slog.Logger) *Gateway {
	if completer == nil {
		panic("generation: Completer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{completer: completer, log: log}
}

// Generate returns ErrEmptyInput for blank text and wraps provider failures in ErrUpstream.
func (g *Gateway) Generate(ctx context.Context, kind Kind, text string) (string, error) {
	instruction, ok := kind.Instruction()
	if !ok {
		return "", ErrUnknownKind
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	start := time.Now()
	out, err := g.completer.Complete(ctx, instruction, text)
	if err != nil {
		g.log.ErrorContext(ctx, "generation failed",
			logger.Component("generation"),
			logger.Kind(string(kind)),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return "", errors.Join(ErrUpstream, err)
	}

	g.log.DebugContext(ctx, "generation completed",
		logger.Component("generation"),
		logger.Kind(string(kind)),
		logger.Duration(time.Since(start)),
	)
	return out, nil
}
