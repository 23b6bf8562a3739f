// Copyright 2025 The Lockplan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes acquisition activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/engtools/lockplan/lockplan"
	"github.com/prometheus/client_golang/prometheus"
)

// A Collector holds the Prometheus collectors for one or more
// resolvers. Use [Collector.Events] to wire it to a resolver.
type Collector struct {
	acquired    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	released    *prometheus.CounterVec
	resolved    *prometheus.CounterVec
	acquireWait *prometheus.HistogramVec
	resolveTime *prometheus.HistogramVec
}

// New constructs a [Collector].
func New() *Collector {
	labels := []string{"declaration"}
	return &Collector{
		acquired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockplan_locks_acquired_total",
			Help: "Total number of individual locks acquired",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockplan_acquire_failures_total",
			Help: "Total number of failed lock acquisitions",
		}, labels),
		released: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockplan_bundles_released_total",
			Help: "Total number of bundles released",
		}, labels),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockplan_bundles_resolved_total",
			Help: "Total number of bundles fully acquired",
		}, labels),
		acquireWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lockplan_acquire_wait_seconds",
			Help:    "Time spent blocked on individual lock acquisitions",
			Buckets: prometheus.DefBuckets,
		}, labels),
		resolveTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lockplan_resolve_seconds",
			Help:    "Time spent acquiring complete bundles",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
}

// Register registers the collectors on the provided registry.
func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.acquired, c.failures, c.released, c.resolved,
		c.acquireWait, c.resolveTime)
}

// Events returns callbacks that feed the collectors. Pass the result to
// [lockplan.Resolver.SetEvents].
func (c *Collector) Events() *lockplan.Events {
	return &lockplan.Events{
		OnAcquired: func(declaration, _ string, _ int, wait time.Duration) {
			c.acquired.WithLabelValues(declaration).Inc()
			c.acquireWait.WithLabelValues(declaration).Observe(wait.Seconds())
		},
		OnAcquireFailed: func(declaration, _ string, _ int, _ error) {
			c.failures.WithLabelValues(declaration).Inc()
		},
		OnResolved: func(declaration string, total time.Duration) {
			c.resolved.WithLabelValues(declaration).Inc()
			c.resolveTime.WithLabelValues(declaration).Observe(total.Seconds())
		},
		OnReleased: func(declaration string) {
			c.released.WithLabelValues(declaration).Inc()
		},
	}
}

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}
