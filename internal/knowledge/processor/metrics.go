package processor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 分块相关的 Prometheus 指标
type Metrics struct {
	documents *prometheus.CounterVec
	chunks    *prometheus.CounterVec
	filtered  prometheus.Counter
	duration  prometheus.Histogram
	quality   prometheus.Histogram
}

// NewMetrics 创建指标并注册到 reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chunker_documents_total",
			Help: "Documents chunked, by preset.",
		}, []string{"preset"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chunker_chunks_total",
			Help: "Chunks returned, by preset.",
		}, []string{"preset"}),
		filtered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chunker_chunks_filtered_total",
			Help: "Chunks dropped for being shorter than min_chunk_size.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chunker_processing_seconds",
			Help:    "Time spent chunking and scoring one document.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		quality: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chunker_quality_score",
			Help:    "Overall quality score of returned chunks.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.documents, m.chunks, m.filtered, m.duration, m.quality} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(presetID string, returned, filtered int, scores []float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(presetID).Inc()
	m.chunks.WithLabelValues(presetID).Add(float64(returned))
	m.filtered.Add(float64(filtered))
	m.duration.Observe(elapsed.Seconds())
	for _, s := range scores {
		m.quality.Observe(s)
	}
}
