package domain

import "errors"

// Domain errors
var (
	ErrUnsupportedStorage = errors.New("unsupported storage provider")
)
