/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the action gateway and the push trigger as one
// long-running HTTP server, with Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainguard.dev/repoagent/gateway"
	"chainguard.dev/repoagent/metrics"
	"chainguard.dev/repoagent/trigger"
	"chainguard.dev/repoagent/trigger/invoker"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/chainguard-dev/clog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type config struct {
	Port int `env:"PORT,default=8080"`
	// Environment, when set, labels every metric, e.g. "staging".
	Environment string `env:"ENVIRONMENT"`

	Gateway gateway.Config
	Trigger trigger.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = clog.WithLogger(ctx, clog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	exporter, err := otelprom.New()
	if err != nil {
		clog.FatalContextf(ctx, "creating prometheus exporter: %v", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	defer func() {
		if err := mp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			clog.ErrorContextf(ctx, "shutting down meter provider: %v", err)
		}
	}()
	otel.SetMeterProvider(mp)
	rec := metrics.NewGlobal()
	if cfg.Environment != "" {
		rec.SetAttributeEnricher(func(_ context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
			return append(attrs, attribute.String("environment", cfg.Environment))
		})
	}

	d, err := gateway.New(ctx, cfg.Gateway, rec)
	if err != nil {
		clog.FatalContextf(ctx, "creating gateway: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "loading AWS config: %v", err)
	}
	agent := invoker.New(bedrockagentruntime.NewFromConfig(awsCfg), cfg.Trigger.AgentID, cfg.Trigger.AliasID)
	h := trigger.NewHandlerFromConfig(cfg.Trigger, agent, rec)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(clog.FromContext(ctx), d, h, promhttp.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			clog.ErrorContextf(ctx, "shutting down server: %v", err)
		}
	}()

	clog.InfoContextf(ctx, "Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "serving: %v", err)
	}
}
