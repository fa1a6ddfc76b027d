package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrForbidden       = errors.New("not allowed to modify this project")
	ErrInvalidPlatform = errors.New("unsupported share platform")
	ErrInvalidSort     = errors.New("unsupported sort")
	ErrInvalidTag      = errors.New("invalid tag")
)
