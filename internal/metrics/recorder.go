// Package metrics exports ring buffer activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dagucloud/ringbuf/pkg/ringbuf"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/lo"
)

const namespace = "ringbuf"

var _ ringbuf.Observer = (*Recorder)(nil)

// Recorder implements ringbuf.Observer on top of Prometheus collectors.
// Every metric carries a constant "component" label.
type Recorder struct {
	pushes    prometheus.Counter
	evictions prometheus.Counter
	pops      prometheus.Counter
	clears    prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer, component string) (*Recorder, error) {
	labels := prometheus.Labels{"component": component}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	r := &Recorder{
		pushes:      counter("pushes_total", "Total number of elements appended"),
		evictions:   counter("evictions_total", "Total number of elements overwritten by appends to a full buffer"),
		pops:        counter("pops_total", "Total number of elements removed from the front"),
		clears:      counter("clears_total", "Total number of clear operations"),
		size:        gauge("size", "Current number of live elements"),
		utilization: gauge("utilization", "Live elements as a fraction of capacity (0.0 to 1.0)"),
	}

	for _, c := range []prometheus.Collector{r.pushes, r.evictions, r.pops, r.clears, r.size, r.utilization} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register ring buffer metrics for %q: %w", component, err)
		}
	}
	return r, nil
}

func (r *Recorder) Pushed(size, capacity int) {
	r.pushes.Inc()
	r.setSize(size, capacity)
}

func (r *Recorder) Evicted() {
	r.evictions.Inc()
}

func (r *Recorder) Popped(size, capacity int) {
	r.pops.Inc()
	r.setSize(size, capacity)
}

func (r *Recorder) Cleared(capacity int) {
	r.clears.Inc()
	r.setSize(0, capacity)
}

func (r *Recorder) setSize(size, capacity int) {
	r.size.Set(float64(size))
	r.utilization.Set(float64(size) / float64(capacity))
}

// Sample is a single gathered metric value.
type Sample struct {
	Name   string  `json:"name" yaml:"name"`
	Labels string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

// Snapshot gathers counters and gauges from g, sorted by name.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				value = m.GetGauge().GetValue()
			default:
				continue
			}
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: formatLabels(m.GetLabel()),
				Value:  value,
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	return strings.Join(lo.Map(pairs, func(p *dto.LabelPair, _ int) string {
		return p.GetName() + "=" + p.GetValue()
	}), ",")
}
