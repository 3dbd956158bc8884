// SPDX-License-Identifier: AGPL-3.0-only

package tokenize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	restoreHit     = "hit"
	restoreMiss    = "miss"
	restoreDropped = "dropped"
)

// Metrics are shared by every Session created with them.
type Metrics struct {
	scanCalls     prometheus.Counter
	tokens        *prometheus.CounterVec
	declined      prometheus.Counter
	stateRestores *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scanCalls: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "adoc_scanner_scan_calls_total",
			Help: "Total number of times the external scanner was invoked.",
		}),
		tokens: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "adoc_scanner_tokens_total",
			Help: "Total number of tokens produced, by kind.",
		}, []string{"kind"}),
		declined: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "adoc_scanner_declined_total",
			Help: "Total number of scanner invocations that produced no token.",
		}),
		stateRestores: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "adoc_scanner_state_restores_total",
			Help: "Total number of incremental re-lexes, by how the resume state was obtained.",
		}, []string{"outcome"}),
	}

	for _, outcome := range []string{restoreHit, restoreMiss, restoreDropped} {
		m.stateRestores.WithLabelValues(outcome)
	}
	return m
}
