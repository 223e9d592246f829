package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mealroute/models"
)

// PromSink records task metrics in Prometheus collectors.
type PromSink struct {
	generations *prometheus.CounterVec
	latency     prometheus.Histogram
	boxes       *prometheus.GaugeVec
	unassigned  prometheus.Gauge
	exports     *prometheus.CounterVec
	dispatch    *prometheus.CounterVec
}

// NewPromSink registers the collectors on reg (the default registerer when nil).
// Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealroute_task_generations_total",
			Help: "Daily task sheets generated",
		}, []string{"source"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealroute_task_generation_seconds",
			Help:    "Time to load inputs and generate a task sheet",
			Buckets: prometheus.DefBuckets,
		}),
		boxes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mealroute_boxes",
			Help: "Boxes in the last generated sheet",
		}, []string{"kind"}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mealroute_unassigned_clients",
			Help: "Clients without a driver in the last generated sheet",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealroute_exports_total",
			Help: "Rendered reports by format and result",
		}, []string{"format", "result"}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealroute_dispatch_messages_total",
			Help: "Task lists sent to drivers",
		}, []string{"result"}),
	}
	var err error
	if s.generations, err = register(reg, s.generations); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.boxes, err = register(reg, s.boxes); err != nil {
		return nil, err
	}
	if s.unassigned, err = register(reg, s.unassigned); err != nil {
		return nil, err
	}
	if s.exports, err = register(reg, s.exports); err != nil {
		return nil, err
	}
	if s.dispatch, err = register(reg, s.dispatch); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordGeneration counts a generation and sets the box gauges from its totals.
func (s *PromSink) RecordGeneration(tasks models.DailyTasks, source string, took time.Duration) {
	s.generations.WithLabelValues(source).Inc()
	s.latency.Observe(took.Seconds())
	total := tasks.Totals()
	s.boxes.WithLabelValues("deliver").Set(float64(total.Tiffins))
	s.boxes.WithLabelValues("collect").Set(float64(total.EmptyBoxes))
	n := 0
	if g, ok := tasks.Groups[models.UnassignedGroup]; ok {
		n = len(g.Items)
	}
	s.unassigned.Set(float64(n))
}

func (s *PromSink) RecordExport(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.exports.WithLabelValues(format, result).Inc()
}

func (s *PromSink) RecordDispatch(sent, failed int) {
	s.dispatch.WithLabelValues("sent").Add(float64(sent))
	s.dispatch.WithLabelValues("failed").Add(float64(failed))
}
