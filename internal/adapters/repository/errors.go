package repository

import "errors"

// Sentinel kinds for row store errors.
var (
	ErrNotFound = errors.New("row not found")
	ErrClosed   = errors.New("store closed")
)
