package domain

import "errors"

var (
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidType = errors.New("invalid notification type")

	ErrStreamUnavailable = errors.New("notification stream unavailable")
)
