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
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Jutsu is a reusable prompt technique: a named template with
// {placeholder} slots and a chakra classification used for routing hints.
type Jutsu struct {
	Name        string `yaml:"name" validate:"required"`
	Template    string `yaml:"template" validate:"required"`
	Description string `yaml:"description"`
	ChakraType  string `yaml:"chakra_type" validate:"omitempty,oneof=fire water earth wind lightning neutral"`
}

// placeholderPattern matches {identifier} slots. Literal JSON braces inside
// templates don't match because the first character after '{' must start an
// identifier.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Weave fills the template's placeholders from args in a single pass.
// Substituted values are never rescanned, so an arg may safely contain
// brace tokens of its own.
//
// Every placeholder must be supplied; a leftover slot fails with
// ErrMissingPlaceholder rather than sending a half-woven prompt to a model.
func (j Jutsu) Weave(args map[string]string) (string, error) {
	missing := ""
	woven := placeholderPattern.ReplaceAllStringFunc(j.Template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := args[name]; ok {
			return v
		}
		if missing == "" {
			missing = name
		}
		return tok
	})
	if missing != "" {
		return "", fmt.Errorf("%w: {%s} in jutsu %q", ErrMissingPlaceholder, missing, j.Name)
	}
	return woven, nil
}

// StandardLibrary returns the built-in technique library, keyed by id.
//
// Chakra styles group techniques by effect: earth = structured parsing,
// wind = flowing text, fire = illuminating analysis, water = adaptive
// transformation, lightning = precise calculation.
func StandardLibrary() map[string]Jutsu {
	return map[string]Jutsu{
		"parse_invoice": {
			Name: "Invoice Parsing Jutsu",
			Template: `Parse this invoice into JSON.
Schema: {"client": "name", "lineItems": [{"description": "what", "quantity": number, "rate": number}]}
Input: "{text}"
Output ONLY valid JSON:`,
			Description: "Extract structured invoice data",
			ChakraType:  "earth",
		},
		"parse_contact": {
			Name: "Contact Extraction Jutsu",
			Template: `Extract contact info as JSON.
Schema: {"name": "string", "email": "string|null", "phone": "string|null", "company": "string|null"}
Input: "{text}"
Output ONLY valid JSON:`,
			Description: "Extract contact information",
			ChakraType:  "earth",
		},
		"summarize": {
			Name: "Condensation Jutsu",
			Template: `Summarize in 1-2 sentences:
{text}

Summary:`,
			Description: "Condense text to essence",
			ChakraType:  "wind",
		},
		"email_draft": {
			Name: "Messenger Bird Jutsu",
			Template: `Write a brief professional email.
To: {recipient}
Subject: {subject}
Key points: {points}

Email:`,
			Description: "Draft professional emails",
			ChakraType:  "wind",
		},
		"dialectic": {
			Name: "Thesis-Antithesis-Synthesis Jutsu",
			Template: `Analyze dialectically:
Problem: {problem}

THESIS (current state):
ANTITHESIS (what opposes it):
SYNTHESIS (higher unity):`,
			Description: "Dialectical analysis",
			ChakraType:  "fire",
		},
		"critique": {
			Name: "Critical Eye Jutsu",
			Template: `Critique this briefly (strengths & weaknesses):
{content}

Critique:`,
			Description: "Balanced critique",
			ChakraType:  "fire",
		},
		"translate": {
			Name: "Universal Tongue Jutsu",
			Template: `Translate to {language}:
{text}

Translation:`,
			Description: "Language translation",
			ChakraType:  "water",
		},
		"rephrase": {
			Name: "Mirror Reflection Jutsu",
			Template: `Rephrase this in {style} style:
{text}

Rephrased:`,
			Description: "Rephrase in different styles",
			ChakraType:  "water",
		},
		"calculate": {
			Name: "Lightning Calculator Jutsu",
			Template: `Calculate: {expression}
Return ONLY the number:`,
			Description: "Mathematical calculation",
			ChakraType:  "lightning",
		},
		"estimate": {
			Name: "Foresight Jutsu",
			Template: `Estimate {what} based on: {context}
Give a single number with brief reasoning:`,
			Description: "Estimation with reasoning",
			ChakraType:  "lightning",
		},
	}
}

// libraryFile is the YAML shape for a custom technique file.
type libraryFile struct {
	Jutsu map[string]Jutsu `yaml:"jutsu" validate:"required,dive"`
}

// LoadLibrary reads custom techniques from a YAML file and merges them over
// the standard library (file entries win on id collision). Each technique
// is validated before the merge.
//
// Example file:
//
//	jutsu:
//	  haiku:
//	    name: Haiku Jutsu
//	    template: "Write a haiku about {topic}:"
//	    chakra_type: wind
func LoadLibrary(path string) (map[string]Jutsu, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jutsu library: %w", err)
	}
	var file libraryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse jutsu library: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid jutsu library %s: %w", path, err)
	}

	library := StandardLibrary()
	for id, j := range file.Jutsu {
		library[id] = j
	}
	return library, nil
}

// LibraryIDs returns the sorted technique ids of a library.
func LibraryIDs(library map[string]Jutsu) []string {
	ids := make([]string, 0, len(library))
	for id := range library {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
