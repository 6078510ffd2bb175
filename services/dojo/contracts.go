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
	"sort"

	"github.com/AleutianAI/DojoLocal/services/llm"
)

// SummoningContract builds a pre-configured ninja from a model client
// and a technique library.
type SummoningContract struct {
	Name        string
	Description string
	Summon      func(client llm.LLMClient, library map[string]Jutsu) *Ninja
}

func ptrF32(v float32) *float32 { return &v }
func ptrInt(v int) *int         { return &v }

// StandardContracts returns the built-in roster of summoning contracts,
// keyed by contract name.
func StandardContracts() map[string]SummoningContract {
	return map[string]SummoningContract{
		"parser": {
			Name:        "parser",
			Description: "Structured data extraction specialist",
			Summon: func(client llm.LLMClient, library map[string]Jutsu) *Ninja {
				return NewNinja("parser", "You extract structured data. Output only valid JSON, nothing else.",
					"earth", client,
					llm.GenerationParams{Temperature: ptrF32(0.1), MaxTokens: ptrInt(512)},
					library, "parse_invoice", "parse_contact")
			},
		},
		"writer": {
			Name:        "writer",
			Description: "Concise text composition specialist",
			Summon: func(client llm.LLMClient, library map[string]Jutsu) *Ninja {
				return NewNinja("writer", "You write clear, concise text. No preamble, no filler.",
					"wind", client,
					llm.GenerationParams{Temperature: ptrF32(0.7), MaxTokens: ptrInt(512)},
					library, "summarize", "email_draft")
			},
		},
		"analyst": {
			Name:        "analyst",
			Description: "Critical analysis specialist",
			Summon: func(client llm.LLMClient, library map[string]Jutsu) *Ninja {
				return NewNinja("analyst", "You analyze rigorously. Surface tensions and contradictions.",
					"fire", client,
					llm.GenerationParams{Temperature: ptrF32(0.5), MaxTokens: ptrInt(768)},
					library, "dialectic", "critique")
			},
		},
		"translator": {
			Name:        "translator",
			Description: "Language and style transformation specialist",
			Summon: func(client llm.LLMClient, library map[string]Jutsu) *Ninja {
				return NewNinja("translator", "You translate and rephrase faithfully. Preserve meaning exactly.",
					"water", client,
					llm.GenerationParams{Temperature: ptrF32(0.3), MaxTokens: ptrInt(512)},
					library, "translate", "rephrase")
			},
		},
		"calculator": {
			Name:        "calculator",
			Description: "Numeric calculation and estimation specialist",
			Summon: func(client llm.LLMClient, library map[string]Jutsu) *Ninja {
				return NewNinja("calculator", "You compute precisely. Return only what is asked for.",
					"lightning", client,
					llm.GenerationParams{Temperature: ptrF32(0.0), MaxTokens: ptrInt(256)},
					library, "calculate", "estimate")
			},
		},
	}
}

// ContractNames returns the sorted names of a contract registry.
func ContractNames(contracts map[string]SummoningContract) []string {
	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
