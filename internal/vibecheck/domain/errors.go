package domain

import "errors"

var (
	ErrNotFound             = errors.New("vibe check not found")
	ErrInvalidInput         = errors.New("invalid vibe check input")
	ErrEvaluatorUnavailable = errors.New("vibe check evaluator is not configured")
	ErrEvaluationFailed     = errors.New("vibe check evaluation failed")
)
