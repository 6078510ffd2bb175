// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dojo implements the specialist dispatch layer: jutsu (reusable
// prompt techniques), ninjas (small-model specialists), summoning contracts
// (ninja factories), and the Hokage orchestrator that routes work to them.
//
// Every result the layer produces is a scroll registered in the shared
// namespace, so downstream consumers get lineage and wire serialization
// for free.
package dojo

import "errors"

// Sentinel errors for dispatch operations.
var (
	// ErrUnknownNinja is returned when dispatching to a name nobody holds.
	ErrUnknownNinja = errors.New("unknown ninja")

	// ErrUnknownJutsu is returned when a ninja is asked for a technique
	// it has not learned.
	ErrUnknownJutsu = errors.New("unknown jutsu")

	// ErrUnknownContract is returned when summoning with an unregistered
	// contract name.
	ErrUnknownContract = errors.New("unknown summoning contract")

	// ErrMissingPlaceholder is returned when weaving a template without
	// values for all of its placeholders.
	ErrMissingPlaceholder = errors.New("missing placeholder value")

	// ErrNoSteps is returned when a combination is submitted without steps.
	ErrNoSteps = errors.New("combination requires at least one step")
)
