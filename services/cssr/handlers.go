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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/Epsilon/services/cssr/alphabet"
	"github.com/AleutianAI/Epsilon/services/cssr/infer"
	storage "github.com/AleutianAI/Epsilon/services/cssr/storage/badger"
	"github.com/AleutianAI/Epsilon/services/cssr/tree"
)

// Handlers contains the HTTP handlers for the epsilon service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// getOrCreateRequestID returns the X-Request-ID header or a fresh uuid.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleInfer handles POST /v1/cssr/infer.
//
// Request Body:
//
//	InferRequest
//
// Response:
//
//	200 OK: InferResponse
//	400 Bad Request: Validation error, invalid configuration, or
//	  insufficient data
//	422 Unprocessable Entity: Non-convergence within the pass bound
//	500 Internal Server Error: Persistence failure
func (h *Handlers) HandleInfer(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleInfer")

	var req InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	opts := h.svc.cfg.Defaults
	if req.MaxHistory > 0 {
		opts.MaxHistory = req.MaxHistory
	}
	if req.Alpha > 0 {
		opts.Alpha = req.Alpha
	}
	if req.MinSupport > 0 {
		opts.MinSupport = req.MinSupport
	}

	runID, result, err := h.svc.Infer(c.Request.Context(), req.Sequence, &opts, "inline", req.Save)
	if err != nil {
		status, code := statusForError(err)
		logger.Warn("Inference failed", "error", err, "code", code)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	logger.Info("Inference complete", "run_id", runID, "states", result.States)
	c.JSON(http.StatusOK, InferResponse{
		RunID:        runID,
		States:       result.States,
		AlphabetSize: result.AlphabetSize,
		DurationMS:   result.Duration.Milliseconds(),
		Saved:        req.Save && h.svc.HasStore(),
		Model:        result.Model,
	})
}

// HandleListModels handles GET /v1/cssr/models.
func (h *Handlers) HandleListModels(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleListModels")

	summaries, err := h.svc.ListModels(c.Request.Context())
	if err != nil {
		status, code := statusForError(err)
		logger.Warn("List models failed", "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": summaries, "count": len(summaries)})
}

// HandleGetModel handles GET /v1/cssr/models/:id.
func (h *Handlers) HandleGetModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGetModel")

	record, err := h.svc.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, code := statusForError(err)
		logger.Warn("Get model failed", "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, record)
}

// HandleDeleteModel handles DELETE /v1/cssr/models/:id.
func (h *Handlers) HandleDeleteModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteModel")

	if err := h.svc.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		status, code := statusForError(err)
		logger.Warn("Delete model failed", "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleListRuns handles GET /v1/cssr/runs.
//
// Query Parameters:
//
//	limit - Maximum runs to return; 0 returns everything retained.
func (h *Handlers) HandleListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_REQUEST",
			})
			return
		}
		limit = v
	}
	runs := h.svc.RecentRuns(limit)
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// HandleHealth handles GET /v1/cssr/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: ServiceVersion,
		Store:   h.svc.HasStore(),
	})
}

// statusForError maps engine and store errors to HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, infer.ErrInvalidConfiguration):
		return http.StatusBadRequest, "INVALID_CONFIGURATION"
	case errors.Is(err, tree.ErrInsufficientData):
		return http.StatusBadRequest, "INSUFFICIENT_DATA"
	case errors.Is(err, alphabet.ErrNegativeSymbol), errors.Is(err, alphabet.ErrEmptySequence):
		return http.StatusBadRequest, "INVALID_SEQUENCE"
	case errors.Is(err, infer.ErrNonConvergence):
		return http.StatusUnprocessableEntity, "NON_CONVERGENCE"
	case errors.Is(err, storage.ErrModelNotFound):
		return http.StatusNotFound, "MODEL_NOT_FOUND"
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
