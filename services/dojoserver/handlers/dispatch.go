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
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/DojoLocal/services/dojo"
	"github.com/AleutianAI/DojoLocal/services/dojoserver/observability"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

type DispatchRequest struct {
	Ninja string            `json:"ninja" binding:"required"`
	Jutsu string            `json:"jutsu" binding:"required"`
	Args  map[string]string `json:"args"`
}

type CloneArmyRequest struct {
	Ninja string              `json:"ninja" binding:"required"`
	Jutsu string              `json:"jutsu" binding:"required"`
	Tasks []map[string]string `json:"tasks" binding:"required,min=1"`
}

type CombinationRequest struct {
	Steps []dojo.CombinationStep `json:"steps" binding:"required,min=1,dive"`
}

// dispatchStatus maps a routing error to an HTTP status. Unknown names are
// caller mistakes; everything else is on the house.
func dispatchStatus(err error) int {
	if errors.Is(err, dojo.ErrUnknownNinja) || errors.Is(err, dojo.ErrUnknownJutsu) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// recordResult feeds the dispatch metrics for one produced scroll.
func recordResult(mode string, s *scroll.Scroll, seconds float64) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	schema := s.Meta().Schema
	m.RecordScroll(schema)
	m.RecordMission(mode, schema != dojo.ErrorSchema)
	if payload, ok := s.Data().(map[string]any); ok {
		if ninja, ok := payload["ninja"].(string); ok {
			if jutsu, ok := payload["jutsu"].(string); ok {
				m.ObserveJutsu(ninja, jutsu, seconds)
			}
		}
	}
}

// HandleDispatch routes a single technique to a named ninja.
//
// A model failure still returns 200: the outcome is an error scroll
// (schema dojo/error) and the scroll is the response. Only unknown names
// and malformed requests produce HTTP errors.
func HandleDispatch(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleDispatch")
		defer span.End()

		var req DispatchRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		start := time.Now()
		s, err := h.Dispatch(ctx, req.Ninja, req.Jutsu, req.Args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Dispatch failed", "ninja", req.Ninja, "jutsu", req.Jutsu, "error", err)
			c.JSON(dispatchStatus(err), gin.H{"error": err.Error()})
			return
		}
		recordResult("dispatch", s, time.Since(start).Seconds())
		c.JSON(http.StatusOK, gin.H{"scroll": s.ToWire()})
	}
}

// HandleShadowCloneArmy fans one technique out over many argument sets.
func HandleShadowCloneArmy(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleShadowCloneArmy")
		defer span.End()

		var req CloneArmyRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.ActiveClones.Add(float64(len(req.Tasks)))
			defer m.ActiveClones.Sub(float64(len(req.Tasks)))
		}

		start := time.Now()
		results, err := h.ShadowCloneArmy(ctx, req.Ninja, req.Jutsu, req.Tasks)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Clone army failed", "ninja", req.Ninja, "jutsu", req.Jutsu, "error", err)
			c.JSON(dispatchStatus(err), gin.H{"error": err.Error()})
			return
		}

		seconds := time.Since(start).Seconds()
		wires := make([]scroll.Wire, len(results))
		for i, s := range results {
			wires[i] = s.ToWire()
			recordResult("clone_army", s, seconds)
		}
		c.JSON(http.StatusOK, gin.H{"count": len(wires), "scrolls": wires})
	}
}

// HandleCombination chains techniques sequentially, feeding each response
// into the next step. The final step's scroll is the response; if the
// chain broke, that scroll carries schema dojo/error and names the break.
func HandleCombination(h *dojo.Hokage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleCombination")
		defer span.End()

		var req CombinationRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		start := time.Now()
		s, err := h.Combination(ctx, req.Steps)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Combination failed", "steps", len(req.Steps), "error", err)
			c.JSON(dispatchStatus(err), gin.H{"error": err.Error()})
			return
		}
		recordResult("combination", s, time.Since(start).Seconds())
		c.JSON(http.StatusOK, gin.H{"steps": len(req.Steps), "scroll": s.ToWire()})
	}
}
