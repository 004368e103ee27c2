package metrics

import (
	"fxconvert-service/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ application.Metrics = (*Metrics)(nil)

// Metrics exports the locally recovered failures and resolution outcomes.
type Metrics struct {
	DependencyFallbacks *prometheus.CounterVec
	RateResolutions     *prometheus.CounterVec
	ConversionsRecorded *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DependencyFallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxconvert",
				Name:      "dependency_fallbacks_total",
				Help:      "Durable store or external source failures absorbed by a fallback.",
			},
			[]string{"component", "operation"},
		),
		RateResolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxconvert",
				Name:      "rate_resolutions_total",
				Help:      "Resolved rates by the fallback step that produced them.",
			},
			[]string{"source"},
		),
		ConversionsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxconvert",
				Name:      "conversions_recorded_total",
				Help:      "Ledger appends by storage tier.",
			},
			[]string{"tier"},
		),
	}
}

func (m *Metrics) DependencyDegraded(component, operation string) {
	m.DependencyFallbacks.WithLabelValues(component, operation).Inc()
}

func (m *Metrics) RateResolved(source application.ResolutionSource) {
	m.RateResolutions.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) ConversionRecorded(tier string) {
	m.ConversionsRecorded.WithLabelValues(tier).Inc()
}
