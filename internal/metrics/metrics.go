// Package metrics exposes Prometheus collectors for the control loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/carpark-controller/internal/logic"
)

// Metrics bundles the collectors in a private registry so tests can create
// instances freely without default-registry collisions.
type Metrics struct {
	registry *prometheus.Registry

	SlotsOccupied  prometheus.Gauge
	SlotsAvailable prometheus.Gauge
	BarrierOpen    prometheus.Gauge
	Events         *prometheus.CounterVec
	Ticks          prometheus.Counter
	ReadErrors     prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SlotsOccupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carpark_slots_occupied",
			Help: "Number of slots whose debounced state is occupied.",
		}),
		SlotsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carpark_slots_available",
			Help: "Number of vacant slots.",
		}),
		BarrierOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carpark_barrier_open",
			Help: "1 while the barrier is logically open, 0 otherwise.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carpark_events_total",
			Help: "Committed transition events by type.",
		}, []string{"type"}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carpark_ticks_total",
			Help: "Control loop passes completed.",
		}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carpark_gpio_read_errors_total",
			Help: "Sensor sampling failures.",
		}),
	}

	m.registry.MustRegister(
		m.SlotsOccupied, m.SlotsAvailable, m.BarrierOpen,
		m.Events, m.Ticks, m.ReadErrors,
	)
	return m
}

// ObserveTick records the outcome of one control loop pass.
func (m *Metrics) ObserveTick(res logic.Result, lot logic.LotSnapshot, barrier logic.Position) {
	m.Ticks.Inc()
	m.SlotsOccupied.Set(float64(lot.Occupied))
	m.SlotsAvailable.Set(float64(lot.Available))
	if barrier == logic.BarrierOpen {
		m.BarrierOpen.Set(1)
	} else {
		m.BarrierOpen.Set(0)
	}
	for _, e := range res.Events {
		m.Events.WithLabelValues(string(e.Type)).Inc()
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
