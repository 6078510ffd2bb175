// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the dojo server.
//
// Metrics are exposed via the /metrics endpoint. All metric operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "dojo"

const dispatchSubsystem = "dispatch"

// DispatchMetrics holds the Prometheus metrics for mission dispatch.
//
// Initialize once at startup via InitMetrics(); registering twice panics
// on duplicate registration.
type DispatchMetrics struct {
	// MissionsTotal counts missions by mode and status.
	// Labels: mode (dispatch, clone_army, combination), status (success, error)
	MissionsTotal *prometheus.CounterVec

	// JutsuDurationSeconds measures end-to-end technique latency.
	// Labels: ninja, jutsu
	JutsuDurationSeconds *prometheus.HistogramVec

	// ActiveClones tracks shadow clones currently running.
	ActiveClones prometheus.Gauge

	// ScrollsWritten counts scrolls produced by dispatch, by schema.
	// Labels: schema (dojo/jutsu_result, dojo/error)
	ScrollsWritten *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance, set by InitMetrics().
var DefaultMetrics *DispatchMetrics

// InitMetrics creates and registers the dispatch metrics.
func InitMetrics() *DispatchMetrics {
	DefaultMetrics = &DispatchMetrics{
		MissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: dispatchSubsystem,
				Name:      "missions_total",
				Help:      "Total missions by mode and status",
			},
			[]string{"mode", "status"},
		),

		JutsuDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: dispatchSubsystem,
				Name:      "jutsu_duration_seconds",
				Help:      "End-to-end technique latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"ninja", "jutsu"},
		),

		ActiveClones: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: dispatchSubsystem,
				Name:      "active_clones",
				Help:      "Shadow clones currently running",
			},
		),

		ScrollsWritten: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: dispatchSubsystem,
				Name:      "scrolls_written_total",
				Help:      "Scrolls produced by dispatch, by schema",
			},
			[]string{"schema"},
		),
	}
	return DefaultMetrics
}

// RecordMission records a completed mission.
func (m *DispatchMetrics) RecordMission(mode string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MissionsTotal.WithLabelValues(mode, status).Inc()
}

// ObserveJutsu records one technique's latency.
func (m *DispatchMetrics) ObserveJutsu(ninja, jutsu string, seconds float64) {
	m.JutsuDurationSeconds.WithLabelValues(ninja, jutsu).Observe(seconds)
}

// RecordScroll counts a produced scroll by schema.
func (m *DispatchMetrics) RecordScroll(schema string) {
	m.ScrollsWritten.WithLabelValues(schema).Inc()
}
