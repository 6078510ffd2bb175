// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation for user-supplied values
// that reach the scroll store through the HTTP boundary.
package validation

import (
	"fmt"
	"strings"
)

// MaxKeyLength caps scroll keys coming in over the wire. Internally
// generated keys are far shorter; anything near this limit is garbage.
const MaxKeyLength = 512

// ValidateKey checks a scroll key arriving from an external caller.
//
// Valid keys:
//   - start with "/"
//   - at most MaxKeyLength bytes
//   - no empty path segments ("//") and no relative segments ("." or "..")
//   - printable characters only, no whitespace
//
// The store itself only requires the leading slash; the rest rejects
// keys that are syntactically legal but never produced by this system,
// before they reach lookups or logs.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if !strings.HasPrefix(key, "/") {
		return fmt.Errorf("key %q must start with '/'", key)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("key exceeds %d bytes", MaxKeyLength)
	}
	for _, r := range key {
		if r <= 0x20 || r == 0x7f {
			return fmt.Errorf("key contains whitespace or control characters")
		}
	}
	for _, seg := range strings.Split(key[1:], "/") {
		switch seg {
		case "":
			return fmt.Errorf("key %q has an empty path segment", key)
		case ".", "..":
			return fmt.Errorf("key %q has a relative path segment", key)
		}
	}
	return nil
}

// ValidatePrefix checks a list-prefix query parameter. An empty prefix is
// allowed (it lists everything); a non-empty one must be a key prefix,
// which is a key with the trailing segment possibly unfinished.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(prefix, "/")
	if trimmed == "" {
		// "/" lists everything under the root.
		return nil
	}
	return ValidateKey(trimmed)
}
