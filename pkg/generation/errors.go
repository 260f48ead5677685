package generation

import "errors"

var (
	ErrEmptyInput      = errors.New("generation: text is required")
	ErrUnknownKind     = errors.New("generation: unknown kind")
	ErrUpstream        = errors.New("generation: upstream provider failed")
	ErrEmptyCompletion = errors.New("generation: provider returned no content")
	ErrAPIKeyRequired  = errors.New("generation: API key is required")
)
