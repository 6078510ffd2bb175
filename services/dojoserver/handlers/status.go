// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers of the dojo server.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/DojoLocal/services/dojo"
)

var tracer = otel.Tracer("dojo.server.handlers")

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports the village-level view: roster size, mission count,
// and how many scrolls the namespace holds.
func Status(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "operational",
			"ninjas":   h.RosterNames(),
			"missions": h.MissionCount(),
			"scrolls":  h.Namespace().Len(),
		})
	}
}

// ninjaInfo is the roster listing entry for one specialist.
type ninjaInfo struct {
	Chakra     string   `json:"chakra"`
	Jutsu      []string `json:"jutsu"`
	JutsuCount int64    `json:"jutsu_count"`
}

// ListNinjas describes every active roster member.
func ListNinjas(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		roster := make(map[string]ninjaInfo)
		for _, name := range h.RosterNames() {
			n, ok := h.Ninja(name)
			if !ok {
				continue
			}
			roster[name] = ninjaInfo{
				Chakra:     n.ChakraAffinity,
				Jutsu:      n.KnownJutsu(),
				JutsuCount: n.JutsuCount(),
			}
		}
		c.JSON(http.StatusOK, gin.H{"ninjas": roster})
	}
}

// ListJutsu describes the technique library.
func ListJutsu(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		library := h.Library()
		out := make(map[string]gin.H, len(library))
		for _, id := range dojo.LibraryIDs(library) {
			j := library[id]
			out[id] = gin.H{
				"name":        j.Name,
				"description": j.Description,
				"chakra_type": j.ChakraType,
			}
		}
		c.JSON(http.StatusOK, gin.H{"jutsu": out})
	}
}

// ListContracts describes the summoning contract registry.
func ListContracts(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		contracts := h.Contracts()
		out := make(map[string]string, len(contracts))
		for _, name := range dojo.ContractNames(contracts) {
			out[name] = contracts[name].Description
		}
		c.JSON(http.StatusOK, gin.H{"contracts": out})
	}
}
