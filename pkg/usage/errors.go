package usage

import "errors"

var (
	ErrMissingUserID   = errors.New("usage: user id is required")
	ErrAccountNotFound = errors.New("usage: account not found")
	ErrStorage         = errors.New("usage: storage failure")
)
