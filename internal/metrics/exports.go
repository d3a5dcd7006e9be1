package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Export outcomes.
const (
	ExportOK      = "ok"
	ExportEmpty   = "empty"
	ExportInvalid = "invalid"
	ExportError   = "error"
)

// Hint suggestion outcomes.
const (
	HintOK          = "ok"
	HintUnavailable = "unavailable"
	HintBreakerOpen = "breaker_open"
	HintError       = "error"
)

var (
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exports_total",
			Help:      "HTML export attempts by outcome.",
		},
		[]string{"outcome"},
	)

	exportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "export_bytes",
			Help:      "Size of generated HTML documents.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 10),
		},
	)

	hintSuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "hint_suggestions_total",
			Help:      "Hint suggestion requests by outcome.",
		},
		[]string{"outcome"},
	)
)

// ObserveExport counts one export attempt. size is recorded only for successful exports.
func ObserveExport(outcome string, size int) {
	exportsTotal.WithLabelValues(outcome).Inc()
	if outcome == ExportOK {
		exportBytes.Observe(float64(size))
	}
}

// ObserveHintSuggestion counts one hint suggestion request.
func ObserveHintSuggestion(outcome string) {
	hintSuggestionsTotal.WithLabelValues(outcome).Inc()
}

// ExportCount returns the current exports_total value for outcome. Used by tests across packages.
func ExportCount(outcome string) float64 {
	c, err := exportsTotal.GetMetricWithLabelValues(outcome)
	if err != nil {
		return 0
	}
	return readCounter(c)
}

// HintSuggestionCount returns the current hint_suggestions_total value for outcome.
func HintSuggestionCount(outcome string) float64 {
	c, err := hintSuggestionsTotal.GetMetricWithLabelValues(outcome)
	if err != nil {
		return 0
	}
	return readCounter(c)
}

func readCounter(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
