// Package metrics expose les compteurs Prometheus de transcopy
// (servis sur /metrics par le serveur du popup).
package metrics

import (
	"time"

	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcopy"

// Metrics regroupe les métriques du flux de copie et des déclencheurs.
type Metrics struct {
	CopiesTotal        *prometheus.CounterVec
	ExtractionsTotal   *prometheus.CounterVec
	ExtractAttempts    prometheus.Histogram
	CopyDuration       prometheus.Histogram
	TriggerAttachments prometheus.Counter
	TriggerDetachments prometheus.Counter
	TriggerFires       *prometheus.CounterVec
	TemplateSaves      *prometheus.CounterVec
}

// DefaultMetrics est enregistré dans le registre global de Prometheus.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics crée les métriques et les enregistre dans reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CopiesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copies_total",
			Help:      "Copy operations by outcome",
		}, []string{"outcome"}),
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Successful extractions by strategy",
		}, []string{"strategy"}),
		ExtractAttempts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_attempts",
			Help:      "Extraction attempts per copy operation",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		CopyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "copy_duration_seconds",
			Help:      "Duration of copy operations, waits included",
			Buckets:   []float64{0.5, 1, 1.5, 2, 3, 5},
		}),
		TriggerAttachments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_attachments_total",
			Help:      "Handlers attached to a transcript tab",
		}),
		TriggerDetachments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_detachments_total",
			Help:      "Handlers detached after the tab left the DOM",
		}),
		TriggerFires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_fires_total",
			Help:      "Copy flows started by source",
		}, []string{"source"}),
		TemplateSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_saves_total",
			Help:      "Template save requests by result",
		}, []string{"result"}),
	}
}

// RecordCopy enregistre l'issue et la durée d'une copie.
func (m *Metrics) RecordCopy(outcome model.Outcome, attempts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CopiesTotal.WithLabelValues(string(outcome)).Inc()
	if attempts > 0 {
		m.ExtractAttempts.Observe(float64(attempts))
	}
	m.CopyDuration.Observe(elapsed.Seconds())
}

// RecordExtraction enregistre la stratégie ayant produit le texte.
func (m *Metrics) RecordExtraction(strategy model.Strategy) {
	if m == nil || strategy == model.StrategyNone {
		return
	}
	m.ExtractionsTotal.WithLabelValues(string(strategy)).Inc()
}
