package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
)

var _ billing.BatchObserver = (*BatchMetrics)(nil)

// BatchMetrics colectores Prometheus de las corridas de facturación.
type BatchMetrics struct {
	emitidas prometheus.Counter
	fallidas prometheus.Counter
	omitidas prometheus.Counter
	duracion prometheus.Histogram
}

// NewBatchMetrics registra los colectores en el registry dado (nil = registry
// por defecto).
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &BatchMetrics{
		emitidas: factory.NewCounter(prometheus.CounterOpts{
			Name: "facturacion_boletas_emitidas_total",
			Help: "Boletas emitidas por corridas de facturación.",
		}),
		fallidas: factory.NewCounter(prometheus.CounterOpts{
			Name: "facturacion_boletas_fallidas_total",
			Help: "Clientes cuya emisión de boleta falló.",
		}),
		omitidas: factory.NewCounter(prometheus.CounterOpts{
			Name: "facturacion_boletas_omitidas_total",
			Help: "Clientes omitidos por tener boleta existente para el período.",
		}),
		duracion: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "facturacion_corrida_duracion_segundos",
			Help:    "Duración de las corridas de facturación.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

func (m *BatchMetrics) BoletaEmitida()          { m.emitidas.Inc() }
func (m *BatchMetrics) BoletaFallida()          { m.fallidas.Inc() }
func (m *BatchMetrics) BoletaOmitida()          { m.omitidas.Inc() }
func (m *BatchMetrics) RunDuration(sec float64) { m.duracion.Observe(sec) }
