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
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/DojoLocal/services/llm"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

// maxCloneConcurrency caps parallel model calls in a clone army. Local
// daemons serialize generations anyway; a small cap keeps queueing fair.
const maxCloneConcurrency = 4

// Hokage is the village-level orchestrator. It owns the shared scroll
// namespace, the model client, the technique library, and the active
// ninja roster, and routes missions to specialists.
type Hokage struct {
	ns        *scroll.Namespace
	client    llm.LLMClient
	library   map[string]Jutsu
	contracts map[string]SummoningContract

	mu       sync.Mutex
	ninjas   map[string]*Ninja
	missions int
}

// NewHokage creates an orchestrator and summons the full standard roster.
func NewHokage(ns *scroll.Namespace, client llm.LLMClient, library map[string]Jutsu) *Hokage {
	if library == nil {
		library = StandardLibrary()
	}
	h := &Hokage{
		ns:        ns,
		client:    client,
		library:   library,
		contracts: StandardContracts(),
		ninjas:    make(map[string]*Ninja),
	}
	for _, name := range ContractNames(h.contracts) {
		if _, err := h.Summon(name); err != nil {
			slog.Error("Failed to summon", "contract", name, "error", err)
		}
	}
	return h
}

// Namespace returns the shared scroll namespace.
func (h *Hokage) Namespace() *scroll.Namespace { return h.ns }

// Library returns the technique library.
func (h *Hokage) Library() map[string]Jutsu { return h.library }

// Contracts returns the summoning contract registry.
func (h *Hokage) Contracts() map[string]SummoningContract { return h.contracts }

// Summon executes a contract and adds the resulting ninja to the roster.
func (h *Hokage) Summon(contractName string) (*Ninja, error) {
	contract, ok := h.contracts[contractName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContract, contractName)
	}
	n := contract.Summon(h.client, h.library)
	h.mu.Lock()
	h.ninjas[n.Name] = n
	h.mu.Unlock()
	slog.Info("Ninja summoned", "name", n.Name, "chakra", n.ChakraAffinity)
	return n, nil
}

// Ninja looks up an active roster member by name.
func (h *Hokage) Ninja(name string) (*Ninja, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.ninjas[name]
	return n, ok
}

// RosterNames returns the sorted names of the active roster.
func (h *Hokage) RosterNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.ninjas))
	for name := range h.ninjas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MissionCount reports how many missions this Hokage has assigned.
func (h *Hokage) MissionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.missions
}

func (h *Hokage) nextMission() (int, string) {
	h.mu.Lock()
	h.missions++
	seq := h.missions
	h.mu.Unlock()
	return seq, uuid.NewString()
}

// Dispatch routes a single technique to a named ninja. Caller mistakes
// (unknown ninja or technique) are rejected before a mission number is
// consumed, so MissionCount only counts missions actually assigned.
func (h *Hokage) Dispatch(ctx context.Context, ninjaName, jutsuID string,
	args map[string]string) (*scroll.Scroll, error) {

	n, ok := h.Ninja(ninjaName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNinja, ninjaName)
	}
	if !n.Knows(jutsuID) {
		return nil, fmt.Errorf("%w: %q (ninja %s)", ErrUnknownJutsu, jutsuID, ninjaName)
	}
	seq, missionID := h.nextMission()
	slog.Info("Mission dispatched",
		"mission", seq, "mission_id", missionID, "ninja", ninjaName, "jutsu", jutsuID)
	return n.PerformJutsu(ctx, h.ns, jutsuID, args)
}

// ShadowCloneArmy runs one technique over many argument sets in parallel,
// one clone per task. Results come back in task order. A failed model call
// yields an error scroll in its slot; only caller mistakes (unknown ninja
// or technique) abort the army.
func (h *Hokage) ShadowCloneArmy(ctx context.Context, ninjaName, jutsuID string,
	tasks []map[string]string) ([]*scroll.Scroll, error) {

	n, ok := h.Ninja(ninjaName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNinja, ninjaName)
	}
	if !n.Knows(jutsuID) {
		return nil, fmt.Errorf("%w: %q (ninja %s)", ErrUnknownJutsu, jutsuID, ninjaName)
	}
	seq, missionID := h.nextMission()
	slog.Info("Shadow clone army assembled",
		"mission", seq, "mission_id", missionID,
		"ninja", ninjaName, "jutsu", jutsuID, "clones", len(tasks))

	clones := n.ShadowClone(len(tasks))
	results := make([]*scroll.Scroll, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCloneConcurrency)
	for i, task := range tasks {
		g.Go(func() error {
			s, err := clones[i].PerformJutsu(gctx, h.ns, jutsuID, task)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CombinationStep is one link of a sequential technique chain.
type CombinationStep struct {
	Ninja string            `json:"ninja" validate:"required"`
	Jutsu string            `json:"jutsu" validate:"required"`
	Args  map[string]string `json:"args"`
}

// Combination runs steps sequentially, feeding each step's response into
// the next one: the literal token {previous} inside an arg value is
// expanded, and "previous" is also injected as an arg for templates that
// take it directly. It returns the final step's scroll; every intermediate
// scroll stays in the namespace under its own key.
//
// An error scroll mid-chain stops the chain and is returned as the result,
// so callers can inspect where the combination broke.
func (h *Hokage) Combination(ctx context.Context, steps []CombinationStep) (*scroll.Scroll, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	// Reject caller mistakes up front; the mission number is consumed only
	// once the whole chain is dispatchable.
	for i, step := range steps {
		n, ok := h.Ninja(step.Ninja)
		if !ok {
			return nil, fmt.Errorf("%w: %q (step %d)", ErrUnknownNinja, step.Ninja, i+1)
		}
		if !n.Knows(step.Jutsu) {
			return nil, fmt.Errorf("%w: %q (step %d)", ErrUnknownJutsu, step.Jutsu, i+1)
		}
	}
	seq, missionID := h.nextMission()
	slog.Info("Combination jutsu started",
		"mission", seq, "mission_id", missionID, "steps", len(steps))

	var last *scroll.Scroll
	var stepKeys []string
	previous := ""
	for i, step := range steps {
		n, ok := h.Ninja(step.Ninja)
		if !ok {
			return nil, fmt.Errorf("%w: %q (step %d)", ErrUnknownNinja, step.Ninja, i+1)
		}
		args := make(map[string]string, len(step.Args)+1)
		for k, v := range step.Args {
			args[k] = strings.ReplaceAll(v, "{previous}", previous)
		}
		if previous != "" {
			args["previous"] = previous
		}
		s, err := n.PerformJutsu(ctx, h.ns, step.Jutsu, args)
		if err != nil {
			return nil, fmt.Errorf("combination step %d: %w", i+1, err)
		}
		last = s
		if s.Meta().Schema == ErrorSchema {
			slog.Warn("Combination broke", "step", i+1, "key", s.Key())
			return s, nil
		}
		if payload, ok := s.Data().(map[string]any); ok {
			if resp, ok := payload["response"].(string); ok {
				previous = resp
			}
		}
		stepKeys = append(stepKeys, s.Key())
	}

	// Mission summary scroll, with the chain as provenance.
	summary, err := scroll.NewWithMeta(h.ns,
		fmt.Sprintf("/hokage/combination_%d", seq),
		map[string]any{
			"mission_id": missionID,
			"steps":      stepKeys,
			"final":      last.Key(),
		},
		scroll.Meta{Schema: MissionSchema, Prev: stepKeys, Op: "combination"})
	if err != nil {
		return nil, fmt.Errorf("record combination summary: %w", err)
	}
	slog.Info("Combination jutsu complete", "mission_id", missionID, "summary", summary.Key())
	return last, nil
}
