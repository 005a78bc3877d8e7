package engine

import "errors"

var (
	// ErrNameCollision indicates two outputs resolved to the same file name,
	// or an output would overwrite an existing file.
	ErrNameCollision = errors.New("output name collision")

	// ErrValidation indicates a request validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNoBases indicates no base blob was found.
	ErrNoBases = errors.New("no base blobs found")

	// ErrCheckFailed indicates an overlay failed to apply to a produced base
	// while strict checking was requested.
	ErrCheckFailed = errors.New("overlay applicability check failed")
)
