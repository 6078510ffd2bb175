// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scroll

import "fmt"

// Universal operators work regardless of payload kind. They record lineage
// like the arithmetic operators but carry the identity backward rule.

// Transform applies fn to the whole payload and records an opaque operation
// label. An empty label defaults to "lambda".
func (s *Scroll) Transform(fn func(any) any, label string) (*Scroll, error) {
	if label == "" {
		label = "lambda"
	}
	return s.child(fn(s.data), label, s)
}

// Map applies fn element-wise when the payload is a sequence. For any other
// kind it behaves as Transform with the "map" label.
func (s *Scroll) Map(fn func(any) any) (*Scroll, error) {
	seq, ok := s.data.([]any)
	if !ok {
		return s.Transform(fn, "map")
	}
	mapped := make([]any, len(seq))
	for i, x := range seq {
		mapped[i] = fn(x)
	}
	return s.child(mapped, "map", s)
}

// Filter keeps sequence elements satisfying pred. For non-sequence payloads
// it is a deliberate short-circuit: the receiver is returned unchanged, with
// no new child and no new registration.
func (s *Scroll) Filter(pred func(any) bool) (*Scroll, error) {
	seq, ok := s.data.([]any)
	if !ok {
		return s, nil
	}
	kept := make([]any, 0, len(seq))
	for _, x := range seq {
		if pred(x) {
			kept = append(kept, x)
		}
	}
	return s.child(kept, "filter", s)
}

// Reduce folds a sequence payload to a single value. A non-nil initial
// seeds the fold; otherwise the first element does. Non-sequence payloads
// return the receiver unchanged.
func (s *Scroll) Reduce(fn func(acc, x any) any, initial any) (*Scroll, error) {
	seq, ok := s.data.([]any)
	if !ok {
		return s, nil
	}
	var acc any
	rest := seq
	if initial != nil {
		acc = initial
	} else {
		if len(seq) == 0 {
			return nil, fmt.Errorf("reduce of empty sequence with no initial value: %w", ErrTypeMismatch)
		}
		acc = seq[0]
		rest = seq[1:]
	}
	for _, x := range rest {
		acc = fn(acc, x)
	}
	return s.child(acc, "reduce", s)
}

// Get projects a field out of a mapping (string key) or an element out of a
// sequence (int index). A missing key or out-of-range index produces a child
// with a nil payload, not an error.
func (s *Scroll) Get(key any) (*Scroll, error) {
	switch k := key.(type) {
	case string:
		if m, ok := s.data.(map[string]any); ok {
			return s.child(m[k], "."+k, s)
		}
		return s.child(nil, "."+k, s)
	case int:
		if seq, ok := s.data.([]any); ok {
			var v any
			if k >= 0 && k < len(seq) {
				v = seq[k]
			}
			return s.child(v, fmt.Sprintf("[%d]", k), s)
		}
		return s.child(nil, fmt.Sprintf("[%d]", k), s)
	default:
		return s.child(nil, fmt.Sprintf(".%v", key), s)
	}
}
