// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scroll implements the universal data envelope used across Dojo.
//
// A Scroll wraps a path-style key, an arbitrary JSON-representable payload,
// and a Meta record carrying a content hash plus computation lineage. Scrolls
// register themselves into a Namespace at construction, derived scrolls record
// their parents by key, and a backward pass distributes a scalar influence
// value from any derived scroll to its ancestors.
//
// # Ownership Model
//
// A Scroll exclusively owns its Meta record. Lineage keys in Meta.Prev are
// weak references: they are resolved through the Namespace at traversal time,
// and a key that no longer resolves is treated as a missing leaf, never an
// error. The Namespace itself is last-write-wins; two scrolls registered
// under the same key shadow each other silently.
//
// # Thread Safety
//
// Namespace operations are safe for concurrent use. Building a computation
// graph and running Backward are single-writer activities: influence
// accumulation is additive and must not race with another backward pass over
// a graph sharing ancestors.
package scroll

import "errors"

// Sentinel errors for scroll operations.
var (
	// ErrTypeMismatch is returned when an operator is applied to payload
	// kinds it is not defined for (e.g. scaling a mapping). Operators never
	// coerce silently.
	ErrTypeMismatch = errors.New("operator not defined for payload types")

	// ErrNonSerializable is returned when a payload cannot be rendered for
	// hashing or wire output. Construction fails fast rather than producing
	// a corrupt hash.
	ErrNonSerializable = errors.New("payload cannot be serialized")

	// ErrInvalidKey is returned when an explicit key does not start with
	// the path separator.
	ErrInvalidKey = errors.New("scroll key must start with '/'")

	// ErrBadWire is returned when a wire object cannot be decoded.
	ErrBadWire = errors.New("malformed wire object")
)
