/*
Copyright (c) csclocks authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package clockstats

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PrometheusExporter exposes a Tracker's snapshot as a set of gauges
// collected on every scrape, rather than pushed on a timer.
type PrometheusExporter struct {
	registry   *prometheus.Registry
	tracker    *Tracker
	listenPort int
}

// NewPrometheusExporter builds an exporter for tracker listening on
// listenPort.
func NewPrometheusExporter(tracker *Tracker, listenPort int) *PrometheusExporter {
	e := &PrometheusExporter{
		registry:   prometheus.NewRegistry(),
		tracker:    tracker,
		listenPort: listenPort,
	}
	e.registry.MustRegister(e)
	return e
}

var (
	descNow            = prometheus.NewDesc("csclocks_now", "Current reading of the tracked clock, in its own ticks.", []string{"clock_id"}, nil)
	descTickRate       = prometheus.NewDesc("csclocks_tick_rate", "Configured ticks per second of the tracked clock.", []string{"clock_id"}, nil)
	descEffectiveSpeed = prometheus.NewDesc("csclocks_effective_speed", "Product of speed up the tracked clock's ancestry.", []string{"clock_id"}, nil)
	descAvailable      = prometheus.NewDesc("csclocks_is_available", "1 if the tracked clock is currently available, else 0.", []string{"clock_id"}, nil)
	descChanges        = prometheus.NewDesc("csclocks_change_total", "Total change events observed.", []string{"clock_id"}, nil)
	descAvailables     = prometheus.NewDesc("csclocks_available_total", "Total available events observed.", []string{"clock_id"}, nil)
	descUnavailables   = prometheus.NewDesc("csclocks_unavailable_total", "Total unavailable events observed.", []string{"clock_id"}, nil)
	descDispersionMean = prometheus.NewDesc("csclocks_dispersion_mean_seconds", "Running mean of observed dispersion.", []string{"clock_id"}, nil)
	descDispersionStd  = prometheus.NewDesc("csclocks_dispersion_stddev_seconds", "Running standard deviation of observed dispersion.", []string{"clock_id"}, nil)
	descDescendants    = prometheus.NewDesc("csclocks_descendant_count", "Number of clocks reachable below the tracked clock.", []string{"clock_id"}, nil)
)

// Describe implements prometheus.Collector.
func (e *PrometheusExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- descNow
	ch <- descTickRate
	ch <- descEffectiveSpeed
	ch <- descAvailable
	ch <- descChanges
	ch <- descAvailables
	ch <- descUnavailables
	ch <- descDispersionMean
	ch <- descDispersionStd
	ch <- descDescendants
}

// Collect implements prometheus.Collector.
func (e *PrometheusExporter) Collect(ch chan<- prometheus.Metric) {
	s := e.tracker.Snapshot()
	available := 0.0
	if s.IsAvailable {
		available = 1.0
	}
	ch <- prometheus.MustNewConstMetric(descNow, prometheus.GaugeValue, s.Now, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descTickRate, prometheus.GaugeValue, s.TickRate, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descEffectiveSpeed, prometheus.GaugeValue, s.EffectiveSpeed, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descAvailable, prometheus.GaugeValue, available, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descChanges, prometheus.CounterValue, float64(s.ChangeCount), s.ClockID)
	ch <- prometheus.MustNewConstMetric(descAvailables, prometheus.CounterValue, float64(s.AvailableCount), s.ClockID)
	ch <- prometheus.MustNewConstMetric(descUnavailables, prometheus.CounterValue, float64(s.UnavailableCount), s.ClockID)
	ch <- prometheus.MustNewConstMetric(descDispersionMean, prometheus.GaugeValue, s.DispersionMean, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descDispersionStd, prometheus.GaugeValue, s.DispersionStddev, s.ClockID)
	ch <- prometheus.MustNewConstMetric(descDescendants, prometheus.GaugeValue, float64(s.DescendantCount), s.ClockID)
}

// Start serves /metrics on listenPort. Blocks until the server exits.
func (e *PrometheusExporter) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	addr := fmt.Sprintf(":%d", e.listenPort)
	log.WithField("addr", addr).Info("clockstats: starting prometheus exporter")
	return http.ListenAndServe(addr, mux)
}
