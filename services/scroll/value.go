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

// Kind classifies a payload for operator dispatch.
//
// The five kinds cover everything the wire format can carry. Payloads decoded
// from JSON classify natively (float64 -> KindNumber, []any -> KindSequence,
// map[string]any -> KindMapping). Anything else is KindOpaque, for which the
// combine/scale operators are rejected unless an extension hook is registered
// on the namespace.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindSequence
	KindMapping
	KindOpaque
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "opaque"
	}
}

// KindOf classifies a payload value.
func KindOf(v any) Kind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case string:
		return KindText
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	default:
		return KindOpaque
	}
}

// asFloat coerces any numeric payload to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asInt coerces an integral payload to int. Floats with a fractional part
// and non-numeric payloads are rejected.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		if float32(int(n)) == n {
			return int(n), true
		}
	case float64:
		if float64(int(n)) == n {
			return int(n), true
		}
	}
	return 0, false
}

// isIntegral reports whether a numeric payload carries an integer value.
func isIntegral(v any) bool {
	_, ok := asInt(v)
	return ok
}
