// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dojo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/DojoLocal/services/llm"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

var tracer = otel.Tracer("dojo.ninja")

// Schemas stamped on dispatch results.
const (
	ResultSchema  = "dojo/jutsu_result"
	ErrorSchema   = "dojo/error"
	MissionSchema = "dojo/mission"
)

// Ninja is a named specialist bound to one model client, a system prompt,
// and the set of techniques it has learned.
//
// A ninja is safe for concurrent dispatch; the per-ninja counters are
// atomic and scroll registration is handled by the namespace.
type Ninja struct {
	Name           string
	System         string
	ChakraAffinity string

	client  llm.LLMClient
	params  llm.GenerationParams
	library map[string]Jutsu
	known   map[string]bool

	jutsuCount atomic.Int64
}

// NewNinja creates a specialist that knows the given technique ids.
// An empty jutsuIDs list grants the whole library.
func NewNinja(name, system, chakra string, client llm.LLMClient,
	params llm.GenerationParams, library map[string]Jutsu, jutsuIDs ...string) *Ninja {

	known := make(map[string]bool)
	if len(jutsuIDs) == 0 {
		for id := range library {
			known[id] = true
		}
	} else {
		for _, id := range jutsuIDs {
			known[id] = true
		}
	}
	return &Ninja{
		Name:           name,
		System:         system,
		ChakraAffinity: chakra,
		client:         client,
		params:         params,
		library:        library,
		known:          known,
	}
}

// KnownJutsu returns the sorted technique ids this ninja can perform.
func (n *Ninja) KnownJutsu() []string {
	ids := make([]string, 0, len(n.known))
	for id := range n.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Knows reports whether the ninja has learned the technique.
func (n *Ninja) Knows(jutsuID string) bool {
	return n.known[jutsuID]
}

// LearnJutsu teaches the ninja an additional technique.
func (n *Ninja) LearnJutsu(id string, j Jutsu) {
	n.library[id] = j
	n.known[id] = true
}

// JutsuCount reports how many techniques this ninja has performed.
func (n *Ninja) JutsuCount() int64 { return n.jutsuCount.Load() }

// PerformJutsu weaves the technique with args, runs it through the model,
// and records the outcome as a scroll under /ninja/<name>/.
//
// Model and weaving failures are recorded as error scrolls (schema
// dojo/error) and returned with a nil error, so a batch of dispatches
// degrades per-task instead of aborting. Asking for a technique the ninja
// has not learned is a caller mistake and returns ErrUnknownJutsu.
func (n *Ninja) PerformJutsu(ctx context.Context, ns *scroll.Namespace,
	jutsuID string, args map[string]string) (*scroll.Scroll, error) {

	ctx, span := tracer.Start(ctx, "Ninja.PerformJutsu")
	defer span.End()
	span.SetAttributes(
		attribute.String("ninja.name", n.Name),
		attribute.String("ninja.jutsu", jutsuID),
	)

	if !n.known[jutsuID] {
		return nil, fmt.Errorf("%w: %q (ninja %s)", ErrUnknownJutsu, jutsuID, n.Name)
	}
	j, ok := n.library[jutsuID]
	if !ok {
		return nil, fmt.Errorf("%w: %q not in library", ErrUnknownJutsu, jutsuID)
	}

	seq := n.jutsuCount.Add(1)
	key := fmt.Sprintf("/ninja/%s/%s_%d", n.Name, jutsuID, seq)

	prompt, err := j.Weave(args)
	if err != nil {
		return n.recordError(ns, key, jutsuID, err)
	}

	start := time.Now()
	response, err := n.client.Generate(ctx, n.System, prompt, n.params)
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("Jutsu failed", "ninja", n.Name, "jutsu", jutsuID, "error", err)
		return n.recordError(ns, key, jutsuID, err)
	}
	slog.Info("Jutsu performed",
		"ninja", n.Name, "jutsu", jutsuID, "elapsed_ms", elapsed.Milliseconds())

	return scroll.NewWithMeta(ns, key, map[string]any{
		"ninja":      n.Name,
		"jutsu":      jutsuID,
		"response":   response,
		"elapsed_ms": elapsed.Milliseconds(),
	}, scroll.NewMeta(ResultSchema))
}

// recordError stores a failure as an error scroll at the dispatch key.
func (n *Ninja) recordError(ns *scroll.Namespace, key, jutsuID string,
	cause error) (*scroll.Scroll, error) {

	return scroll.NewWithMeta(ns, key, map[string]any{
		"ninja": n.Name,
		"jutsu": jutsuID,
		"error": cause.Error(),
	}, scroll.NewMeta(ErrorSchema))
}

// ShadowClone produces count copies of this ninja, each with an indexed
// name and independent counters, sharing the model client and library.
func (n *Ninja) ShadowClone(count int) []*Ninja {
	clones := make([]*Ninja, 0, count)
	for i := range count {
		clone := NewNinja(
			fmt.Sprintf("%s_clone_%d", n.Name, i+1),
			n.System, n.ChakraAffinity, n.client, n.params, n.library,
		)
		clone.known = n.known
		clones = append(clones, clone)
	}
	return clones
}
