// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/DojoLocal/services/dojo"
	"github.com/AleutianAI/DojoLocal/services/dojoserver/handlers"
	"github.com/AleutianAI/DojoLocal/services/dojoserver/middleware"
)

// SetupRoutes wires the dojo API onto the router.
func SetupRoutes(router *gin.Engine, h *dojo.Hokage) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/status", handlers.Status(h))
	router.GET("/ninjas", handlers.ListNinjas(h))
	router.GET("/jutsu", handlers.ListJutsu(h))
	router.GET("/contracts", handlers.ListContracts(h))

	router.POST("/dispatch", handlers.HandleDispatch(h))
	router.POST("/shadow-clone-army", handlers.HandleShadowCloneArmy(h))
	router.POST("/combination", handlers.HandleCombination(h))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scroll store routes
	v1 := router.Group("/v1")
	{
		v1.GET("/scrolls", handlers.ListScrolls(h.Namespace()))
		// Singular path for the by-key read: a catch-all under /scrolls
		// would collide with the list route in gin's tree.
		v1.GET("/scroll/*key", handlers.GetScroll(h.Namespace()))
		v1.POST("/backward", handlers.HandleBackward(h.Namespace()))
		v1.POST("/lineage", handlers.HandleLineage(h.Namespace()))
	}
}
