// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrLink is matched by every *LinkError.
	ErrLink = errors.New("pipeline: link failed")

	// ErrNilFactory is returned when a pipeline is requested without a factory.
	ErrNilFactory = errors.New("pipeline: factory is nil")

	// ErrNilDescriptor is returned when a nil descriptor is handed to a Cache.
	ErrNilDescriptor = errors.New("pipeline: descriptor is nil")
)

// LinkError reports stages that compiled but do not fit together, or do
// not fit the layout the caller declared.
type LinkError struct {
	Label  string
	Reason string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("pipeline: link %q: %s", e.Label, e.Reason)
}

// Is reports whether target is ErrLink.
func (e *LinkError) Is(target error) bool {
	return target == ErrLink
}

func linkErrorf(label, format string, args ...any) error {
	return &LinkError{Label: label, Reason: fmt.Sprintf(format, args...)}
}
