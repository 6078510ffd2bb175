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

// Backward propagates influence from this scroll to its ancestors.
//
// Description:
//
//	Builds a post-order topological ordering of the ancestor DAG by
//	depth-first traversal from the terminal scroll, resolving parent keys
//	through the namespace. Visits are tracked by key, not by pointer
//	identity, because parents are only reachable by key. A parent key that
//	no longer resolves is treated as a missing leaf and skipped.
//
//	The terminal scroll's influence is then seeded at 1.0 (it is the scalar
//	objective being differentiated) and each scroll's backward rule is
//	applied in reverse topological order. Rules add contributions, never
//	overwrite, so a value feeding the terminal through multiple paths
//	accumulates the sum of all of them.
//
//	The graph is assumed frozen for the duration of the pass. Operators
//	applied afterwards do not re-trigger it, and two concurrent passes over
//	graphs sharing ancestors would race on the accumulators.
func (s *Scroll) Backward() {
	var topo []*Scroll
	visited := make(map[string]bool)

	var build func(*Scroll)
	build = func(node *Scroll) {
		if visited[node.key] {
			return
		}
		visited[node.key] = true
		for _, prevKey := range node.meta.Prev {
			if parent, ok := node.ns.Read(prevKey); ok {
				build(parent)
			}
		}
		topo = append(topo, node)
	}
	build(s)

	s.meta.Influence = 1.0
	for i := len(topo) - 1; i >= 0; i-- {
		topo[i].applyBackward()
	}
}

// Influences returns the accumulated influence of this scroll and every
// resolvable ancestor, keyed by scroll key. The traversal tracks visited
// keys the same way Backward does, so shared ancestors in diamond-shaped
// graphs are read once each. Run Backward first; otherwise every entry is
// the zero accumulator.
func (s *Scroll) Influences() map[string]float64 {
	out := make(map[string]float64)

	var walk func(*Scroll)
	walk = func(node *Scroll) {
		if _, seen := out[node.key]; seen {
			return
		}
		out[node.key] = node.meta.Influence
		for _, prevKey := range node.meta.Prev {
			if parent, ok := node.ns.Read(prevKey); ok {
				walk(parent)
			}
		}
	}
	walk(s)
	return out
}

// LineageEntry describes one ancestor in a lineage trace.
type LineageEntry struct {
	Key       string  `json:"key"`
	Op        string  `json:"op,omitempty"`
	Data      string  `json:"data"`
	Influence float64 `json:"influence"`
}

// Lineage walks the parent references up to depth levels and returns an
// ordered list of ancestor descriptors for diagnostics. The receiver counts
// as level one, so depth 1 returns exactly the receiver. Each ancestor is
// reported once, at its first encounter; without that the trace would grow
// with the number of root-to-leaf paths, which is exponential in graphs
// where ancestors are shared. Parent keys that no longer resolve terminate
// their branch silently.
func (s *Scroll) Lineage(depth int) []LineageEntry {
	var history []LineageEntry
	visited := make(map[string]bool)

	var walk func(*Scroll, int)
	walk = func(node *Scroll, d int) {
		if d <= 0 || node == nil || visited[node.key] {
			return
		}
		visited[node.key] = true
		history = append(history, LineageEntry{
			Key:       node.key,
			Op:        node.meta.Op,
			Data:      preview(node.data),
			Influence: node.meta.Influence,
		})
		for _, prevKey := range node.meta.Prev {
			if parent, ok := node.ns.Read(prevKey); ok {
				walk(parent, d-1)
			}
		}
	}
	walk(s, depth)
	return history
}
