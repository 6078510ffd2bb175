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

import (
	"fmt"
	"math"
	"strings"
)

// gradTerm is one local-gradient contribution of a backward rule: during the
// reverse pass the parent at parent gains coeff * child.Influence.
type gradTerm struct {
	parent string
	coeff  float64
}

// backwardRule is the gradient-propagation rule attached to a derived scroll.
//
// Rules are flat coefficient lists rather than closures: every arithmetic and
// activation operator's local gradient is computable at operation time from
// the (immutable) operand payloads, so the rule needs only the parent keys
// and the coefficients. The empty rule is the identity (no-op), which is what
// non-numeric results carry.
type backwardRule []gradTerm

// applyBackward distributes this scroll's influence to its parents.
//
// Contributions are added, never overwritten, so diamond-shaped graphs
// accumulate through every path. A parent key that no longer resolves in the
// namespace is skipped: the namespace is allowed to evict or overwrite.
func (s *Scroll) applyBackward() {
	for _, t := range s.rule {
		if p, ok := s.ns.Read(t.parent); ok {
			p.meta.Influence += t.coeff * s.meta.Influence
		}
	}
}

// child creates a derived scroll carrying result, recording the operation
// label and the operand keys in its metadata.
func (s *Scroll) child(result any, op string, parents ...*Scroll) (*Scroll, error) {
	meta := NewMeta(ComputedSchema)
	meta.Op = op
	meta.Prev = make([]string, len(parents))
	for i, p := range parents {
		meta.Prev[i] = p.key
	}
	return newScroll(s.ns, GenerateKey(result), result, meta)
}

// isIntKind reports whether the payload is an integer-typed Go value.
// Float payloads carrying whole numbers stay floats through arithmetic.
func isIntKind(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// Combine is the binary "+" operator, dispatched on the payload kinds of
// both operands:
//
//	number  + number  -> arithmetic sum
//	text    + text    -> concatenation
//	sequence + sequence -> concatenation (order kept, duplicates allowed)
//	mapping + mapping -> right-biased merge
//
// Any other pair is handed to the namespace's OpaqueCombiner hook when one
// is registered, and rejected with ErrTypeMismatch otherwise. Only the
// number/number case installs a gradient rule; other results carry the
// identity rule.
func (s *Scroll) Combine(other *Scroll) (*Scroll, error) {
	a, b := s.data, other.data
	ka, kb := KindOf(a), KindOf(b)

	var result any
	numeric := false
	switch {
	case ka == KindNumber && kb == KindNumber:
		numeric = true
		if isIntKind(a) && isIntKind(b) {
			ai, _ := asInt(a)
			bi, _ := asInt(b)
			result = int64(ai) + int64(bi)
		} else {
			af, _ := asFloat(a)
			bf, _ := asFloat(b)
			result = af + bf
		}
	case ka == KindText && kb == KindText:
		result = a.(string) + b.(string)
	case ka == KindSequence && kb == KindSequence:
		as, bs := a.([]any), b.([]any)
		merged := make([]any, 0, len(as)+len(bs))
		merged = append(merged, as...)
		merged = append(merged, bs...)
		result = merged
	case ka == KindMapping && kb == KindMapping:
		am, bm := a.(map[string]any), b.(map[string]any)
		merged := make(map[string]any, len(am)+len(bm))
		for k, v := range am {
			merged[k] = v
		}
		for k, v := range bm {
			merged[k] = v
		}
		result = merged
	default:
		if s.ns.OpaqueCombiner == nil {
			return nil, fmt.Errorf("combine %s with %s: %w", ka, kb, ErrTypeMismatch)
		}
		var err error
		result, err = s.ns.OpaqueCombiner(a, b)
		if err != nil {
			return nil, fmt.Errorf("combine %s with %s: %w", ka, kb, err)
		}
	}

	out, err := s.child(result, "+", s, other)
	if err != nil {
		return nil, err
	}
	if numeric {
		out.rule = backwardRule{{s.key, 1}, {other.key, 1}}
	}
	return out, nil
}

// Scale is the binary "*" operator:
//
//	number  * number  -> product
//	text    * integer -> repetition
//	sequence * integer -> repetition
//
// Other pairs go through the OpaqueScaler hook or fail with ErrTypeMismatch.
// Only the number/number case installs a gradient rule.
func (s *Scroll) Scale(other *Scroll) (*Scroll, error) {
	a, b := s.data, other.data
	ka, kb := KindOf(a), KindOf(b)

	var result any
	var rule backwardRule
	switch {
	case ka == KindNumber && kb == KindNumber:
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		if isIntKind(a) && isIntKind(b) {
			ai, _ := asInt(a)
			bi, _ := asInt(b)
			result = int64(ai) * int64(bi)
		} else {
			result = af * bf
		}
		rule = backwardRule{{s.key, bf}, {other.key, af}}
	case ka == KindText && isRepeatCount(b):
		n, _ := asInt(b)
		result = strings.Repeat(a.(string), max(n, 0))
	case ka == KindSequence && isRepeatCount(b):
		n, _ := asInt(b)
		src := a.([]any)
		repeated := make([]any, 0, len(src)*max(n, 0))
		for i := 0; i < n; i++ {
			repeated = append(repeated, src...)
		}
		result = repeated
	default:
		if s.ns.OpaqueScaler == nil {
			return nil, fmt.Errorf("scale %s by %s: %w", ka, kb, ErrTypeMismatch)
		}
		var err error
		result, err = s.ns.OpaqueScaler(a, b)
		if err != nil {
			return nil, fmt.Errorf("scale %s by %s: %w", ka, kb, err)
		}
	}

	out, err := s.child(result, "*", s, other)
	if err != nil {
		return nil, err
	}
	out.rule = rule
	return out, nil
}

// isRepeatCount reports whether the payload can serve as a repetition count.
// Integral floats are accepted because JSON decoding widens every number.
func isRepeatCount(v any) bool {
	if KindOf(v) != KindNumber {
		return false
	}
	return isIntegral(v)
}

// Pow raises a numeric payload to the power n. Non-numeric payloads are
// rejected with ErrTypeMismatch.
func (s *Scroll) Pow(n float64) (*Scroll, error) {
	x, ok := asFloat(s.data)
	if !ok {
		return nil, fmt.Errorf("pow of %s: %w", KindOf(s.data), ErrTypeMismatch)
	}
	out, err := s.child(math.Pow(x, n), fmt.Sprintf("**%g", n), s)
	if err != nil {
		return nil, err
	}
	out.rule = backwardRule{{s.key, n * math.Pow(x, n-1)}}
	return out, nil
}

// Neg negates a numeric payload. Defined as scaling by -1.
func (s *Scroll) Neg() (*Scroll, error) {
	if KindOf(s.data) != KindNumber {
		return nil, fmt.Errorf("negate %s: %w", KindOf(s.data), ErrTypeMismatch)
	}
	return s.Scale(mustLift(s.ns, -1))
}

// Sub subtracts other from s. Defined as combining with the negation of
// other; numeric operands only.
func (s *Scroll) Sub(other *Scroll) (*Scroll, error) {
	if KindOf(s.data) != KindNumber {
		return nil, fmt.Errorf("subtract from %s: %w", KindOf(s.data), ErrTypeMismatch)
	}
	neg, err := other.Neg()
	if err != nil {
		return nil, err
	}
	return s.Combine(neg)
}

// Div divides s by other. Defined as scaling by other to the power -1;
// numeric operands only.
func (s *Scroll) Div(other *Scroll) (*Scroll, error) {
	if KindOf(s.data) != KindNumber {
		return nil, fmt.Errorf("divide %s: %w", KindOf(s.data), ErrTypeMismatch)
	}
	inv, err := other.Pow(-1)
	if err != nil {
		return nil, err
	}
	return s.Scale(inv)
}
