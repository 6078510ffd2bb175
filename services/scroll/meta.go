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

import "time"

// Schema identifiers for the standard scroll kinds.
const (
	// DefaultSchema is the schema for plain data scrolls.
	DefaultSchema = "dojo/scroll"

	// ComputedSchema is the schema for scrolls produced by operators.
	ComputedSchema = "dojo/computed"

	// ErrorSchema is the schema for scrolls carrying an error payload.
	ErrorSchema = "dojo/error"
)

// Meta is the metadata record attached to every scroll.
//
// Standard fields from the wire protocol:
//   - Schema: type identifier for the payload shape
//   - Version: monotonic counter. Defaults to 1 and is caller-managed; it is
//     NOT bumped automatically when a key is overwritten in the namespace.
//   - Hash: SHA-256 hex digest of key + canonical JSON of the payload.
//     Once computed it never changes without key or data changing.
//   - Time: creation timestamp in milliseconds since epoch
//
// Extensions for the computation graph (omitted from the wire at defaults):
//   - Prev: parent scroll keys, in operand order. Empty for leaf scrolls.
//   - Op: symbolic label of the operation that produced this scroll.
//   - Influence: gradient analog, accumulated during a backward pass.
type Meta struct {
	Schema    string
	Version   uint64
	Hash      string
	Time      int64
	Prev      []string
	Op        string
	Influence float64
}

// NewMeta returns a Meta record with version 1 and the current timestamp.
func NewMeta(schema string) Meta {
	return Meta{
		Schema:  schema,
		Version: 1,
		Time:    nowMillis(),
	}
}

// wireMeta is the JSON shape of Meta. The lineage extension fields are
// omitted at their defaults so that ordinary scrolls stay wire-compatible
// with consumers unaware of the computation-graph extension.
type wireMeta struct {
	Schema    string   `json:"schema"`
	Version   uint64   `json:"version"`
	Hash      string   `json:"hash"`
	Time      int64    `json:"time"`
	Prev      []string `json:"prev,omitempty"`
	Op        string   `json:"op,omitempty"`
	Influence float64  `json:"influence,omitempty"`
}

func (m Meta) toWire() wireMeta {
	return wireMeta{
		Schema:    m.Schema,
		Version:   m.Version,
		Hash:      m.Hash,
		Time:      m.Time,
		Prev:      m.Prev,
		Op:        m.Op,
		Influence: m.Influence,
	}
}

// metaFromWire reconstructs a Meta record, restoring defaults for fields the
// wire object omitted.
func metaFromWire(w wireMeta) Meta {
	m := Meta{
		Schema:    w.Schema,
		Version:   w.Version,
		Hash:      w.Hash,
		Time:      w.Time,
		Prev:      w.Prev,
		Op:        w.Op,
		Influence: w.Influence,
	}
	if m.Schema == "" {
		m.Schema = DefaultSchema
	}
	if m.Version == 0 {
		m.Version = 1
	}
	if m.Time == 0 {
		m.Time = nowMillis()
	}
	return m
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
