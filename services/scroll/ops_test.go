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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, ns *Namespace, key string, data any) *Scroll {
	t.Helper()
	s, err := New(ns, key, data)
	require.NoError(t, err)
	return s
}

func TestCombineDispatchTable(t *testing.T) {
	t.Run("numeric sum", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 2.0)
		b := mustNew(t, ns, "/b", 3.0)

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, 5.0, c.Data())
		assert.Equal(t, "+", c.Meta().Op)
		assert.Equal(t, []string{"/a", "/b"}, c.Meta().Prev)
		assert.Equal(t, ComputedSchema, c.Meta().Schema)
	})

	t.Run("integer sum stays integral", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 2)
		b := mustNew(t, ns, "/b", 3)

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, int64(5), c.Data())
	})

	t.Run("text concatenation", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/s1", "Hello ")
		b := mustNew(t, ns, "/s2", "World")

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, "Hello World", c.Data())
	})

	t.Run("sequence concatenation keeps order and duplicates", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/l1", []any{1, 2, 2})
		b := mustNew(t, ns, "/l2", []any{2, 3})

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 2, 2, 3}, c.Data())
	})

	t.Run("mapping merge is right biased", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/d1", map[string]any{"a": 1, "shared": "left"})
		b := mustNew(t, ns, "/d2", map[string]any{"b": 2, "shared": "right"})

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1, "b": 2, "shared": "right"}, c.Data())
	})

	t.Run("numeric with mapping rejected", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/n", 1.0)
		b := mustNew(t, ns, "/m", map[string]any{"a": 1})

		_, err := a.Combine(b)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("opaque pair uses extension hook when registered", func(t *testing.T) {
		ns := NewNamespace()
		ns.OpaqueCombiner = func(a, b any) (any, error) {
			return fmt.Sprintf("%v|%v", a, b), nil
		}
		a := mustNew(t, ns, "/o1", struct{ X int }{1})
		b := mustNew(t, ns, "/o2", struct{ X int }{2})

		c, err := a.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, "{1}|{2}", c.Data())
	})
}

func TestScaleDispatchTable(t *testing.T) {
	t.Run("numeric product", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 2.0)
		b := mustNew(t, ns, "/b", 3.0)

		c, err := a.Scale(b)
		require.NoError(t, err)
		assert.Equal(t, 6.0, c.Data())
		assert.Equal(t, "*", c.Meta().Op)
	})

	t.Run("text repetition", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/s", "ab")
		n := mustNew(t, ns, "/n", 3)

		c, err := a.Scale(n)
		require.NoError(t, err)
		assert.Equal(t, "ababab", c.Data())
	})

	t.Run("sequence repetition", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/l", []any{1, 2})
		n := mustNew(t, ns, "/n", 2)

		c, err := a.Scale(n)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 1, 2}, c.Data())
	})

	t.Run("text by non integer rejected", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/s", "ab")
		n := mustNew(t, ns, "/n", 1.5)

		_, err := a.Scale(n)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("mapping rejected", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/m", map[string]any{"a": 1})
		n := mustNew(t, ns, "/n", 2)

		_, err := a.Scale(n)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})
}

func TestDerivedOperators(t *testing.T) {
	t.Run("pow", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 2.0)

		c, err := a.Pow(2)
		require.NoError(t, err)
		assert.Equal(t, 4.0, c.Data())
		assert.Equal(t, "**2", c.Meta().Op)
	})

	t.Run("pow of text rejected", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/s", "nope")

		_, err := a.Pow(2)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("neg", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 2.0)

		c, err := a.Neg()
		require.NoError(t, err)
		assert.Equal(t, -2.0, c.Data())
	})

	t.Run("sub", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 5.0)
		b := mustNew(t, ns, "/b", 3.0)

		c, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, 2.0, c.Data())
	})

	t.Run("div", func(t *testing.T) {
		ns := NewNamespace()
		a := mustNew(t, ns, "/a", 6.0)
		b := mustNew(t, ns, "/b", 3.0)

		c, err := a.Div(b)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, c.Data().(float64), 1e-12)
	})

	t.Run("derived ops reject non numeric", func(t *testing.T) {
		ns := NewNamespace()
		s := mustNew(t, ns, "/s", "text")
		n := mustNew(t, ns, "/n", 1.0)

		_, err := s.Neg()
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		_, err = s.Sub(n)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		_, err = s.Div(n)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		_, err = n.Sub(s)
		assert.True(t, errors.Is(err, ErrTypeMismatch), "non numeric right operand must be rejected")
	})
}
