// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/DojoLocal/services/scroll"
)

// demoCmd runs a local walkthrough of the scroll store: arithmetic over
// scrolls, an influence pass over the resulting graph, and a lineage trace.
// No server or model is needed.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a local scroll arithmetic and influence-pass demo",
	RunE:  runDemoCommand,
}

func runDemoCommand(cmd *cobra.Command, args []string) error {
	ns := scroll.NewNamespace()

	a, err := scroll.New(ns, "/demo/a", 2.0)
	if err != nil {
		return err
	}
	b, err := scroll.New(ns, "/demo/b", 3.0)
	if err != nil {
		return err
	}

	// c = a*b + a^2
	ab, err := a.Scale(b)
	if err != nil {
		return err
	}
	a2, err := a.Pow(2)
	if err != nil {
		return err
	}
	c, err := ab.Combine(a2)
	if err != nil {
		return err
	}

	fmt.Printf("a = %v  (%s)\n", a.Data(), a.Key())
	fmt.Printf("b = %v  (%s)\n", b.Data(), b.Key())
	fmt.Printf("c = a*b + a^2 = %v\n\n", c.Data())

	c.Backward()

	fmt.Println("influence after backward pass:")
	fmt.Printf("  dc/da = %.1f\n", a.Influence())
	fmt.Printf("  dc/db = %.1f\n", b.Influence())
	fmt.Printf("  dc/dc = %.1f\n\n", c.Influence())

	fmt.Println("lineage of c:")
	for _, entry := range c.Lineage(3) {
		op := entry.Op
		if op == "" {
			op = "leaf"
		}
		fmt.Printf("  %-30s %-6s influence=%.1f data=%s\n",
			entry.Key, op, entry.Influence, entry.Data)
	}

	fmt.Printf("\nnamespace holds %d scrolls\n", ns.Len())
	return nil
}
