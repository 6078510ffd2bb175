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
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// serverURL is shared by every command that talks to a running dojo server.
var serverURL string

var rootCmd = &cobra.Command{
	Use:   "dojo",
	Short: "Dojo CLI - scroll store and ninja dispatch",
	Long: `Dojo is a content-addressable scroll store with lineage tracking and
a dispatch layer that routes prompt techniques to small-model specialists.

Examples:
  dojo demo                                # Run the influence-pass demo locally
  dojo dispatch calculator calculate \
      --arg expression="6*7"               # Send one technique to the server
  dojo version                             # Print version`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dojo CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dojo", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		"http://localhost:12270", "Base URL of the dojo server")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(demoCmd)
}
