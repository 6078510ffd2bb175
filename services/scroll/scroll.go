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
	"encoding/json"
	"fmt"
	"strings"
)

// Scroll is the universal value primitive.
//
// A scroll binds a path-style key to an arbitrary payload and a Meta record.
// Key and payload are immutable after construction; the only in-place
// mutation ever applied is to Meta.Influence, during a backward pass.
//
// Construction registers the scroll into its namespace before returning, so
// an operator building a child immediately afterwards can resolve the parent
// by key. Construction is not idempotent with respect to the namespace:
// constructing twice with the same explicit key replaces the registration.
type Scroll struct {
	key  string
	data any
	meta Meta
	ns   *Namespace
	rule backwardRule
}

// New creates a scroll with an explicit, caller-supplied key.
//
// Inputs:
//
//	ns - The namespace to register into. Must not be nil.
//	key - Stable path identity. Must start with "/".
//	data - The payload. Any JSON-representable value, or anything with a
//	       string rendering (the hash falls back to it).
//
// Outputs:
//
//	*Scroll - The registered scroll.
//	error - ErrInvalidKey for a non-path key, ErrNonSerializable if the
//	        payload cannot be rendered for hashing.
func New(ns *Namespace, key string, data any) (*Scroll, error) {
	if !strings.HasPrefix(key, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return newScroll(ns, key, data, NewMeta(DefaultSchema))
}

// NewWithMeta creates a scroll with an explicit key and a caller-supplied
// Meta record. A pre-set Meta.Hash is trusted as-is; an empty one is
// computed. Version handling is entirely the caller's: overwriting a shared
// key does not bump it.
func NewWithMeta(ns *Namespace, key string, data any, meta Meta) (*Scroll, error) {
	if !strings.HasPrefix(key, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return newScroll(ns, key, data, meta)
}

// Lift creates a scroll with an auto-generated key under AutoKeyPrefix.
func Lift(ns *Namespace, data any) (*Scroll, error) {
	return newScroll(ns, GenerateKey(data), data, NewMeta(DefaultSchema))
}

func newScroll(ns *Namespace, key string, data any, meta Meta) (*Scroll, error) {
	if meta.Schema == "" {
		meta.Schema = DefaultSchema
	}
	if meta.Version == 0 {
		meta.Version = 1
	}
	if meta.Time == 0 {
		meta.Time = nowMillis()
	}
	if meta.Hash == "" {
		h, err := ContentHash(key, data)
		if err != nil {
			return nil, err
		}
		meta.Hash = h
	}
	s := &Scroll{
		key:  key,
		data: data,
		meta: meta,
		ns:   ns,
	}
	ns.register(s)
	return s, nil
}

// mustLift creates a constant scroll for operator-internal use. Numeric
// constants always hash, so the error path is unreachable.
func mustLift(ns *Namespace, data any) *Scroll {
	s, err := Lift(ns, data)
	if err != nil {
		panic(fmt.Sprintf("scroll: lift constant %v: %v", data, err))
	}
	return s
}

// Key returns the scroll's path identity.
func (s *Scroll) Key() string { return s.key }

// Data returns the payload.
func (s *Scroll) Data() any { return s.data }

// Meta returns a copy of the metadata record.
func (s *Scroll) Meta() Meta { return s.meta }

// Hash returns the content hash.
func (s *Scroll) Hash() string { return s.meta.Hash }

// Influence returns the current influence accumulator.
func (s *Scroll) Influence() float64 { return s.meta.Influence }

// Namespace returns the namespace this scroll is registered in.
func (s *Scroll) Namespace() *Namespace { return s.ns }

// String renders the scroll for diagnostics, truncating the payload.
func (s *Scroll) String() string {
	return fmt.Sprintf("Scroll(%s, %s)", s.key, preview(s.data))
}

// preview renders a payload truncated to 30 characters.
func preview(data any) string {
	p := fmt.Sprint(data)
	if len(p) > 30 {
		p = p[:30]
	}
	return p
}

// =============================================================================
// Wire Format
// =============================================================================

// Wire is the boundary contract {key, data, meta} other subsystems rely on.
//
// Data is emitted as-is when the interchange format can represent it,
// otherwise it is replaced by its string rendering. Meta omits the lineage
// extension fields at their defaults.
type Wire struct {
	Key  string   `json:"key"`
	Data any      `json:"data"`
	Meta wireMeta `json:"meta"`
}

// ToWire builds the wire object for this scroll.
func (s *Scroll) ToWire() Wire {
	data := s.data
	if !jsonSafe(data) {
		data = fmt.Sprint(data)
	}
	return Wire{
		Key:  s.key,
		Data: data,
		Meta: s.meta.toWire(),
	}
}

// MarshalWire serializes the scroll to wire-format JSON.
func (s *Scroll) MarshalWire() ([]byte, error) {
	b, err := json.Marshal(s.ToWire())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonSerializable, err)
	}
	return b, nil
}

// FromWire reconstructs a scroll from a wire object, registering it into ns.
//
// FromWire is the exact inverse of ToWire for any wire object ToWire
// produced: key, data, and all explicitly-set meta fields round-trip, and
// omitted meta fields come back at their defaults.
func FromWire(ns *Namespace, w Wire) (*Scroll, error) {
	if w.Key == "" {
		return nil, fmt.Errorf("%w: missing key", ErrBadWire)
	}
	return NewWithMeta(ns, w.Key, w.Data, metaFromWire(w.Meta))
}

// UnmarshalWire decodes wire-format JSON and registers the scroll into ns.
func UnmarshalWire(ns *Namespace, b []byte) (*Scroll, error) {
	var w Wire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWire, err)
	}
	return FromWire(ns, w)
}
