package reference

import "errors"

var (
	ErrEmptyPool     = errors.New("reference pool is empty")
	ErrInvalidLength = errors.New("reference length must be positive")
	ErrRandomSource  = errors.New("failed to read from random source")
)
