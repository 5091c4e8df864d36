// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of one run on a private registry
type Metrics struct {
	Registry   *prometheus.Registry     // registry
	TimeSteps  prometheus.Counter       // forward physical time steps (or steady solutions)
	Recordings *prometheus.CounterVec   // tape recordings by kind
	Sweeps     prometheus.Counter       // reverse sweeps
	PhaseTime  *prometheus.HistogramVec // wall time by phase
	ObjFunc    prometheus.Gauge         // value of the objective function
}

// NewMetrics returns new metrics registered with a new registry
func NewMetrics(namespace string) (o *Metrics) {
	o = &Metrics{
		Registry: prometheus.NewRegistry(),
		TimeSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "time_steps_total",
			Help:      "Total number of forward time steps",
		}),
		Recordings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recordings_total",
			Help:      "Total number of tape recordings",
		}, []string{"kind"}),
		Sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adjoint_sweeps_total",
			Help:      "Total number of reverse sweeps",
		}),
		PhaseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_seconds",
			Help:      "Wall time of the driver phases",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 10, 7),
		}, []string{"phase"}),
		ObjFunc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective_function",
			Help:      "Value of the objective function of the last recording",
		}),
	}
	o.Registry.MustRegister(o.TimeSteps, o.Recordings, o.Sweeps, o.PhaseTime, o.ObjFunc)
	return
}

// observe records the wall time of a phase started at t0
func (o *Metrics) observe(phase string, t0 time.Time) {
	if o == nil {
		return
	}
	o.PhaseTime.WithLabelValues(phase).Observe(time.Since(t0).Seconds())
}
