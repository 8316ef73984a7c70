package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CellsGenerated *prometheus.CounterVec
	Exports        *prometheus.CounterVec
	GridSeconds    *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CellsGenerated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sasgrid_cells_generated_total",
			Help: "Total number of grid cells generated, by step label.",
		}, []string{"step"}),
		Exports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sasgrid_exports_total",
			Help: "Total number of grid table exports.",
		}, []string{"status"}),
		GridSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sasgrid_grid_generation_duration_seconds",
			Help:    "Duration of grid generation and export, by step label.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "sasgrid_active_workers",
			Help: "Current number of active workers processing step sizes.",
		}),
	}
}
