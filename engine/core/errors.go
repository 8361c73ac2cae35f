package core

import (
	"errors"
)

var (
	ErrInvalidSlot  = errors.New("slot index out of range")
	ErrEmptySlot    = errors.New("slot is empty")
	ErrNotReady     = errors.New("engine not initialized")
	ErrShuttingDown = errors.New("engine is shutting down")
	ErrUnknown      = errors.New("unknown")
)
