// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/DojoLocal/pkg/validation"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

type BackwardRequest struct {
	Key string `json:"key" binding:"required"`
}

type LineageRequest struct {
	Key   string `json:"key" binding:"required"`
	Depth int    `json:"depth"`
}

// ListScrolls lists registered scroll keys, optionally filtered by the
// "prefix" query parameter. Order is insertion order.
func ListScrolls(ns *scroll.Namespace) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefix := c.Query("prefix")
		if err := validation.ValidatePrefix(prefix); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		keys := ns.List(prefix)
		c.JSON(http.StatusOK, gin.H{"count": len(keys), "keys": keys})
	}
}

// GetScroll returns one scroll in wire format. The wildcard path segment
// is the scroll key, leading slash included.
func GetScroll(ns *scroll.Namespace) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		if err := validation.ValidateKey(key); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, ok := ns.Read(key)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "scroll not found", "key": key})
			return
		}
		c.JSON(http.StatusOK, s.ToWire())
	}
}

// HandleBackward runs an influence pass seeded at the named scroll and
// returns every ancestor's accumulated influence.
func HandleBackward(ns *scroll.Namespace) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BackwardRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := validation.ValidateKey(req.Key); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, ok := ns.Read(req.Key)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "scroll not found", "key": req.Key})
			return
		}

		s.Backward()
		c.JSON(http.StatusOK, gin.H{"seed": req.Key, "influences": s.Influences()})
	}
}

// HandleLineage returns the ancestry trace of a scroll. Depth defaults
// to 10 levels; the scroll itself counts as level one.
func HandleLineage(ns *scroll.Namespace) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LineageRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Depth <= 0 {
			req.Depth = 10
		}
		if err := validation.ValidateKey(req.Key); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, ok := ns.Read(req.Key)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "scroll not found", "key": req.Key})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": req.Key, "lineage": s.Lineage(req.Depth)})
	}
}
