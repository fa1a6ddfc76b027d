package domain

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrInvalidStatus    = errors.New("status must be draft or published")
	ErrEmptySlug        = errors.New("name produces an empty slug")
)
