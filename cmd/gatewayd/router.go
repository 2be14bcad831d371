/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"io"
	"net/http"

	"chainguard.dev/repoagent/gateway/action"
	"chainguard.dev/repoagent/gateway/dispatcher"
	"chainguard.dev/repoagent/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v75/github"
)

func newRouter(logger *clog.Logger, d *dispatcher.Dispatcher, h *trigger.Handler, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), withLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metricsHandler))

	r.POST("/actions", func(c *gin.Context) {
		var req action.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		// The envelope carries the operation status; transport success is 200.
		c.JSON(http.StatusOK, d.Dispatch(c.Request.Context(), &req))
	})

	r.POST("/webhook", func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		resp := h.Handle(c.Request.Context(), trigger.Delivery{
			EventType:  github.WebHookType(c.Request),
			DeliveryID: github.DeliveryID(c.Request),
			Signature:  c.GetHeader(github.SHA256SignatureHeader),
			Payload:    payload,
		})
		c.JSON(resp.StatusCode, resp.Body)
	})

	return r
}

// withLogger attaches logger, annotated with the request route, to the
// request context.
func withLogger(logger *clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With("method", c.Request.Method, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(clog.WithLogger(c.Request.Context(), log))
		c.Next()
		log.With("status", c.Writer.Status()).Debug("Served request")
	}
}
