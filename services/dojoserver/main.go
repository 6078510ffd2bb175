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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"

	"github.com/AleutianAI/DojoLocal/pkg/logging"
	"github.com/AleutianAI/DojoLocal/services/dojo"
	"github.com/AleutianAI/DojoLocal/services/dojoserver/observability"
	"github.com/AleutianAI/DojoLocal/services/dojoserver/routes"
	"github.com/AleutianAI/DojoLocal/services/llm"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	if endpoint == "" {
		endpoint = "localhost:4317"
	}
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("dojo-server")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newLLMClient builds the model backend named in the config.
func newLLMClient(cfg Config) (llm.LLMClient, error) {
	switch cfg.Backend {
	case "openai":
		slog.Info("Using OpenAI LLM backend")
		return llm.NewOpenAIClient()
	default:
		slog.Info("Using Ollama LLM backend")
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.Model)
	}
}

func main() {
	logger := logging.New(logging.Config{Service: "dojo-server", JSON: true})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cfg, err := LoadConfig(os.Getenv("DOJO_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cleanup, err := initTracer(cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	client, err := newLLMClient(cfg)
	if err != nil {
		log.Fatalf("failed to initialize LLM client: %v", err)
	}

	library := dojo.StandardLibrary()
	if cfg.JutsuLibrary != "" {
		library, err = dojo.LoadLibrary(cfg.JutsuLibrary)
		if err != nil {
			log.Fatalf("failed to load jutsu library: %v", err)
		}
	}

	ns := scroll.NewNamespace()
	hokage := dojo.NewHokage(ns, client, library)

	router := gin.Default()
	router.Use(otelgin.Middleware("dojo-server"))
	routes.SetupRoutes(router, hokage)

	slog.Info("Dojo is open", "port", cfg.Port, "backend", cfg.Backend,
		"ninjas", hokage.RosterNames())
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
