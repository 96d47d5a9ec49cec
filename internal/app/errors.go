package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNotGroup   = errors.New("actor is not a group")
	ErrBadKind    = errors.New("unknown actor kind")
)
