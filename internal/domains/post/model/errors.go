package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodePostNotFound = "POST001"
	ErrCodeSlugTaken    = "POST002"
	ErrCodeNotAuthor    = "POST003"
	ErrCodeValidation   = "POST004"
	ErrCodeStoreFailure = "POST005"
)

// Errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrNotAuthor    = errors.New("requester is not the post author")
	ErrUnauthorized = errors.New("unauthorized to perform this action")
)

// PostError custom error type
type PostError struct {
	Code    string
	Message string
	Err     error
}

func (e *PostError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewPostNotFoundError() *PostError {
	return &PostError{
		Code:    ErrCodePostNotFound,
		Message: "Post not found",
		Err:     ErrPostNotFound,
	}
}

func NewSlugConflictError(slug string) *PostError {
	return &PostError{
		Code:    ErrCodeSlugTaken,
		Message: fmt.Sprintf("A post with slug %q already exists", slug),
		Err:     ErrSlugTaken,
	}
}

func NewNotAuthorError() *PostError {
	return &PostError{
		Code:    ErrCodeNotAuthor,
		Message: "You can only modify your own posts",
		Err:     ErrNotAuthor,
	}
}

func NewValidationError(detail string) *PostError {
	return &PostError{
		Code:    ErrCodeValidation,
		Message: detail,
	}
}

func NewStoreError(err error) *PostError {
	return &PostError{
		Code:    ErrCodeStoreFailure,
		Message: "Storage operation failed",
		Err:     err,
	}
}
