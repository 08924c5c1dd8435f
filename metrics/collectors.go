// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus collectors tracking connection and
// authentication activity, for embedding into a host application's
// registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors groups the gauges, counters and histograms a Connection
// reports against. Register wires them all into a prometheus.Registerer.
type Collectors struct {
	ConnectionsOpen  prometheus.Gauge
	AuthDuration     prometheus.Histogram
	BytesSent        prometheus.Counter
	BytesReceived    prometheus.Counter
	AuthFailuresByOp *prometheus.CounterVec
}

// New returns a Collectors with every metric initialized but not yet
// registered.
func New(namespace string) *Collectors {
	return &Collectors{
		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_open",
			Help:      "Number of currently open HDB connections.",
		}),
		AuthDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "authentication_duration_seconds",
			Help:      "Time spent completing the authentication handshake.",
			Buckets:   prometheus.DefBuckets,
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total bytes written to HDB connections.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total bytes read from HDB connections.",
		}),
		AuthFailuresByOp: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentication_failures_total",
			Help:      "Authentication failures, labeled by the operation that failed.",
		}, []string{"op"}),
	}
}

// Register adds every collector to reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, coll := range []prometheus.Collector{
		c.ConnectionsOpen, c.AuthDuration, c.BytesSent, c.BytesReceived, c.AuthFailuresByOp,
	} {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	return nil
}
