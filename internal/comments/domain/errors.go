package domain

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrReplyNotFound   = errors.New("reply not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrForbidden       = errors.New("not allowed to modify this comment")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrContentTooLong  = errors.New("content is too long")
)
