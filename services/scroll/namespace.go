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
	"strings"
	"sync"
)

// Namespace is the process-wide registry mapping keys to the most recently
// registered scroll at that key.
//
// Description:
//
//	The namespace is the sole mechanism by which a lineage key recorded in
//	Meta.Prev is turned back into a live scroll during traversal. It is an
//	explicit store object: construct one, pass it to every constructor and
//	operator, and its lifetime bounds the computation graphs built on it.
//
// Invariants:
//
//   - Registration is last-write-wins. Two scrolls honestly sharing a key
//     shadow each other silently; no version enforcement is applied.
//   - List iteration is insertion-stable. Re-registering an existing key
//     keeps its original position.
//
// Thread Safety:
//
//	Read, List, Len, and registration are safe for concurrent use. Clear
//	must not race with an in-flight backward pass.
type Namespace struct {
	mu      sync.RWMutex
	scrolls map[string]*Scroll
	order   []string

	// OpaqueCombiner, when set, handles the Combine operator for payload
	// kind pairs outside the dispatch table. Unset, those pairs are
	// rejected with ErrTypeMismatch.
	OpaqueCombiner func(a, b any) (any, error)

	// OpaqueScaler is the Scale counterpart of OpaqueCombiner.
	OpaqueScaler func(a, b any) (any, error)
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		scrolls: make(map[string]*Scroll),
	}
}

// register installs a scroll under its key, shadowing any previous holder.
func (ns *Namespace) register(s *Scroll) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, exists := ns.scrolls[s.key]; !exists {
		ns.order = append(ns.order, s.key)
	}
	ns.scrolls[s.key] = s
}

// Read returns the scroll registered at key.
//
// The second return value is false when no scroll holds the key. Callers
// traversing lineage must treat that as "no such ancestor", not an error.
func (ns *Namespace) Read(key string) (*Scroll, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	s, ok := ns.scrolls[key]
	return s, ok
}

// List returns all registered keys starting with prefix, in insertion order.
func (ns *Namespace) List(prefix string) []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	keys := make([]string, 0, len(ns.order))
	for _, k := range ns.order {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of registered keys.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.scrolls)
}

// Clear drops every registration. Intended for resetting state between
// independent runs, not as a normal operational path.
func (ns *Namespace) Clear() {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.scrolls = make(map[string]*Scroll)
	ns.order = nil
}
