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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// AutoKeyPrefix is the reserved namespace prefix for auto-generated keys.
const AutoKeyPrefix = "/scroll/"

// ContentHash computes the content identity of a scroll: the SHA-256 hex
// digest of the key concatenated with the canonical JSON rendering of data.
//
// Canonicalization sorts mapping keys and falls back to a quoted string
// rendering for any value the interchange format cannot represent, so equal
// (key, data) pairs always hash identically and a change to either changes
// the digest with overwhelming probability.
//
// Outputs:
//
//	string - 64-character lowercase hex digest.
//	error - Non-nil if the payload cannot be rendered at all.
func ContentHash(key string, data any) (string, error) {
	canon, err := canonicalJSON(data)
	if err != nil {
		return "", fmt.Errorf("hash %q: %w", key, err)
	}
	sum := sha256.Sum256([]byte(key + canon))
	return hex.EncodeToString(sum[:]), nil
}

// GenerateKey produces an auto-assigned key under AutoKeyPrefix from a short
// hash prefix of the stringified payload plus a time-derived suffix.
//
// Keys are deterministic enough for lookups within a run but are not
// collision-free; they only minimize accidental collisions in practice.
func GenerateKey(data any) string {
	sum := sha256.Sum256([]byte(fmt.Sprint(data)))
	h := hex.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("%s%s_%d", AutoKeyPrefix, h, nowMillis()%100000)
}

// canonicalJSON renders a payload as deterministic JSON text.
//
// Mappings are rendered with sorted keys regardless of Go map iteration
// order. Values the interchange format rejects (channels, functions, NaN)
// are replaced by their quoted string rendering rather than failing, which
// mirrors the wire-format fallback rule.
func canonicalJSON(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case json.Marshaler:
		b, err := val.MarshalJSON()
		if err != nil {
			return stringFallback(v)
		}
		return string(b), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return stringFallback(v)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return "", fmt.Errorf("%w: mapping key %q", ErrNonSerializable, k)
			}
			sb.Write(kb)
			sb.WriteByte(':')
			elem, err := canonicalJSON(rv.MapIndex(reflect.ValueOf(k)).Interface())
			if err != nil {
				return "", err
			}
			sb.WriteString(elem)
		}
		sb.WriteByte('}')
		return sb.String(), nil

	case reflect.Slice, reflect.Array:
		var sb strings.Builder
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			elem, err := canonicalJSON(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			sb.WriteString(elem)
		}
		sb.WriteByte(']')
		return sb.String(), nil

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "null", nil
		}
		return canonicalJSON(rv.Elem().Interface())

	default:
		b, err := json.Marshal(v)
		if err != nil {
			return stringFallback(v)
		}
		return string(b), nil
	}
}

// stringFallback renders a non-JSON-representable value as a quoted string.
func stringFallback(v any) (string, error) {
	b, err := json.Marshal(fmt.Sprint(v))
	if err != nil {
		return "", fmt.Errorf("%w: %T", ErrNonSerializable, v)
	}
	return string(b), nil
}

// jsonSafe reports whether the interchange format can represent v as-is.
func jsonSafe(v any) bool {
	_, err := json.Marshal(v)
	return err == nil
}
