package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const AVG_COUNT uint8 = 30

// Metrics keeps the rolling frame statistics and the in-process prometheus
// registry for the stage. Nothing is exported over the network.
type Metrics struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64

	Registry       *prometheus.Registry
	Commands       *prometheus.CounterVec
	Loads          *prometheus.CounterVec
	AdvanceSeconds prometheus.Histogram
	ActiveEntities prometheus.Gauge
	PoolWorkers    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		MStimes:  [AVG_COUNT]float64{0},
		Registry: prometheus.NewRegistry(),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aefr",
			Name:      "commands_processed_total",
			Help:      "Commands drained from the command bus, by kind.",
		}, []string{"kind"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aefr",
			Name:      "loads_total",
			Help:      "Background resource loads, by resource and result.",
		}, []string{"resource", "result"}),
		AdvanceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aefr",
			Name:      "advance_phase_seconds",
			Help:      "Wall time of the parallel entity advance phase.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
		}),
		ActiveEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aefr",
			Name:      "active_entities",
			Help:      "Occupied character slots.",
		}),
		PoolWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aefr",
			Name:      "compute_pool_workers",
			Help:      "Workers in the isolated compute pool.",
		}),
	}
	m.Registry.MustRegister(m.Commands, m.Loads, m.AdvanceSeconds, m.ActiveEntities, m.PoolWorkers)
	return m
}

// Update folds one frame's elapsed seconds into the rolling averages.
func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.MStimes[m.FrameAVGCounter] = frameMS
	if m.FrameAVGCounter == AVG_COUNT-1 {
		m.MSavg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			m.MSavg += m.MStimes[i]
		}
		m.MSavg /= float64(AVG_COUNT)
	}
	m.FrameAVGCounter++
	m.FrameAVGCounter %= AVG_COUNT

	// Calculate Frames per second.
	m.AccumulatedFrameMS += frameMS
	if m.AccumulatedFrameMS > 1000 {
		m.FPS = float64(m.Frames)
		m.AccumulatedFrameMS -= 1000
		m.Frames = 0
	}

	// Count all Frames.
	m.Frames++
}

func (m *Metrics) Frame() (float64, float64) {
	return m.FPS, m.MSavg
}

// Summary renders the registry as short "name{labels} value" lines, sorted.
func (m *Metrics) Summary() ([]string, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	lines := []string{fmt.Sprintf("fps=%.0f frame_ms=%.2f", m.FPS, m.MSavg)}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name = fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
			}
			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %.0f", name, metric.GetCounter().GetValue()))
			case metric.GetGauge() != nil:
				lines = append(lines, fmt.Sprintf("%s %.0f", name, metric.GetGauge().GetValue()))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				avg := 0.0
				if h.GetSampleCount() > 0 {
					avg = h.GetSampleSum() / float64(h.GetSampleCount())
				}
				lines = append(lines, fmt.Sprintf("%s count=%d avg=%.6fs", name, h.GetSampleCount(), avg))
			}
		}
	}
	sort.Strings(lines[1:])
	return lines, nil
}
