// Package metrics records conflict scans and assignments.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"droneops/internal/domain"
)

// Sink receives engine measurements.
type Sink interface {
	RecordScan(report domain.ConflictReport, took time.Duration)
	RecordAssignment(kind string, conflicts int, success bool)
}

// NopSink discards every measurement.
type NopSink struct{}

func (NopSink) RecordScan(domain.ConflictReport, time.Duration) {}
func (NopSink) RecordAssignment(string, int, bool)              {}

// PromSink records measurements in Prometheus collectors.
type PromSink struct {
	conflicts   *prometheus.GaugeVec
	scanSeconds prometheus.Histogram
	assignments *prometheus.CounterVec
}

// NewPromSink registers the collectors on reg, or on the default registerer
// when reg is nil. Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	conflicts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "droneops_conflicts",
		Help: "Conflicts found by the most recent fleet scan",
	}, []string{"severity"})
	scanSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "droneops_conflict_scan_seconds",
		Help:    "Duration of fleet-wide conflict scans",
		Buckets: prometheus.DefBuckets,
	})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "droneops_assignments_total",
		Help: "Pilot and drone assignments by outcome",
	}, []string{"kind", "with_conflicts", "success"})

	if err := reg.Register(conflicts); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		conflicts = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	if err := reg.Register(scanSeconds); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		scanSeconds = are.ExistingCollector.(prometheus.Histogram)
	}
	if err := reg.Register(assignments); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		assignments = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return &PromSink{conflicts: conflicts, scanSeconds: scanSeconds, assignments: assignments}, nil
}

func (s *PromSink) RecordScan(report domain.ConflictReport, took time.Duration) {
	s.conflicts.WithLabelValues(string(domain.SeverityCritical)).Set(float64(report.Critical))
	s.conflicts.WithLabelValues(string(domain.SeverityHigh)).Set(float64(report.High))
	s.conflicts.WithLabelValues(string(domain.SeverityMedium)).Set(float64(report.Medium))
	s.scanSeconds.Observe(took.Seconds())
}

func (s *PromSink) RecordAssignment(kind string, conflicts int, success bool) {
	s.assignments.WithLabelValues(kind, strconv.FormatBool(conflicts > 0), strconv.FormatBool(success)).Inc()
}
