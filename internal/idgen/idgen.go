// Package idgen hands out task identifiers.  It lives under internal because
// callers should treat the identifiers as opaque strings and never rely on
// their shape.
package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. Override in tests to
// get deterministic ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }
