package core

import "errors"

var (
	// ErrDegenerateVector is returned when a zero-length vector is normalized.
	ErrDegenerateVector = errors.New("degenerate vector")

	// ErrDegenerateGeometry is returned when a surface's normal cannot be
	// computed because its vertices are collinear or coincident.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
