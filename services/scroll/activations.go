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

import "math"

// Relu clamps a numeric payload at zero: relu(x) = max(0, x), with gradient
// 1 where the output is strictly positive and 0 elsewhere. Non-numeric
// payloads pass through: the receiver is returned with no new child.
func (s *Scroll) Relu() (*Scroll, error) {
	x, ok := asFloat(s.data)
	if !ok {
		return s, nil
	}
	out, err := s.child(math.Max(0, x), "relu", s)
	if err != nil {
		return nil, err
	}
	coeff := 0.0
	if x > 0 {
		coeff = 1.0
	}
	out.rule = backwardRule{{s.key, coeff}}
	return out, nil
}

// Tanh applies the hyperbolic tangent with the standard gradient
// 1 - tanh(x)^2. Non-numeric payloads pass through unchanged.
func (s *Scroll) Tanh() (*Scroll, error) {
	x, ok := asFloat(s.data)
	if !ok {
		return s, nil
	}
	t := math.Tanh(x)
	out, err := s.child(t, "tanh", s)
	if err != nil {
		return nil, err
	}
	out.rule = backwardRule{{s.key, 1 - t*t}}
	return out, nil
}
