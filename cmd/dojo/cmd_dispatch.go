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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var dispatchArgs []string // key=value pairs woven into the technique

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// dispatchCmd sends one technique to a running dojo server.
//
// # Examples
//
//	dojo dispatch calculator calculate --arg expression="6*7"
//	dojo dispatch writer summarize --arg text="A long document..."
var dispatchCmd = &cobra.Command{
	Use:   "dispatch <ninja> <jutsu>",
	Short: "Send one technique to a ninja on the dojo server",
	Args:  cobra.ExactArgs(2),
	RunE:  runDispatchCommand,
}

func init() {
	dispatchCmd.Flags().StringArrayVar(&dispatchArgs, "arg", nil,
		"Template argument as key=value (repeatable)")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func parseArgPairs(pairs []string) (map[string]string, error) {
	args := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, found := strings.Cut(pair, "=")
		if !found || k == "" {
			return nil, fmt.Errorf("malformed --arg %q, want key=value", pair)
		}
		args[k] = v
	}
	return args, nil
}

func runDispatchCommand(cmd *cobra.Command, cliArgs []string) error {
	args, err := parseArgPairs(dispatchArgs)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"ninja": cliArgs[0],
		"jutsu": cliArgs[1],
		"args":  args,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(serverURL+"/dispatch", "application/json",
		bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode,
			strings.TrimSpace(string(body)))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
