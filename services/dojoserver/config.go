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
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration, loaded from an optional YAML file
// and then overridden by environment variables.
type Config struct {
	Port         int    `yaml:"port" validate:"min=1,max=65535"`
	Backend      string `yaml:"backend" validate:"oneof=ollama openai"`
	OllamaURL    string `yaml:"ollama_url"`
	Model        string `yaml:"model"`
	JutsuLibrary string `yaml:"jutsu_library"`
	OtelEndpoint string `yaml:"otel_endpoint"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Port:      12270,
		Backend:   "ollama",
		OllamaURL: "http://localhost:11434",
	}
}

// LoadConfig builds the effective configuration.
//
// Precedence, lowest to highest: defaults, the YAML file at path (skipped
// when path is empty or missing), environment variables (DOJO_PORT,
// DOJO_BACKEND, OLLAMA_BASE_URL, DOJO_MODEL, DOJO_JUTSU_LIBRARY,
// OTEL_EXPORTER_OTLP_ENDPOINT).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("DOJO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("DOJO_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DOJO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("DOJO_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DOJO_JUTSU_LIBRARY"); v != "" {
		cfg.JutsuLibrary = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OtelEndpoint = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
