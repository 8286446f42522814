package repository

import "errors"

var (
	// ErrInvalidImageRef indicates an empty or malformed image ref
	ErrInvalidImageRef = errors.New("invalid image ref")

	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrResultNotFound indicates the analysis result was not found
	ErrResultNotFound = errors.New("analysis result not found")
)
