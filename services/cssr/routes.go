// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cssr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers all epsilon routes with the router.
//
// Description:
//
//	Registers all /v1/cssr/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST   /v1/cssr/infer - Run inference over an inline sequence
//	GET    /v1/cssr/models - List stored models
//	GET    /v1/cssr/models/:id - Fetch a stored model
//	DELETE /v1/cssr/models/:id - Delete a stored model
//	GET    /v1/cssr/runs - List recent runs
//	GET    /v1/cssr/health - Health check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	g := rg.Group("/cssr")
	g.POST("/infer", InferRateLimiter(), handlers.HandleInfer)
	g.GET("/models", handlers.HandleListModels)
	g.GET("/models/:id", handlers.HandleGetModel)
	g.DELETE("/models/:id", handlers.HandleDeleteModel)
	g.GET("/runs", handlers.HandleListRuns)
	g.GET("/health", handlers.HandleHealth)
}

// Rate limiting defaults for the infer endpoint. Inference is CPU-bound
// and unbounded request concurrency would starve in-flight runs.
const (
	// DefaultInferRate is sustained infer requests per second.
	DefaultInferRate = 2

	// DefaultInferBurst is the burst allowance.
	DefaultInferBurst = 5
)

// InferRateLimiter returns middleware limiting infer request throughput.
func InferRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(DefaultInferRate), DefaultInferBurst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many inference requests",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
