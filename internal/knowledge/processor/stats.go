package processor

import (
	"sync/atomic"
	"time"
)

// Stats 引擎累计统计
type Stats struct {
	DocumentsProcessed int64         `json:"documents_processed"`
	ChunksProduced     int64         `json:"chunks_produced"`
	ChunksFiltered     int64         `json:"chunks_filtered"`
	ProcessingTime     time.Duration `json:"processing_time"`
}

// AverageChunks 平均每个文档的分块数
func (s Stats) AverageChunks() float64 {
	if s.DocumentsProcessed == 0 {
		return 0
	}
	return float64(s.ChunksProduced) / float64(s.DocumentsProcessed)
}

type statsCounters struct {
	documents atomic.Int64
	chunks    atomic.Int64
	filtered  atomic.Int64
	elapsed   atomic.Int64
}

func (c *statsCounters) add(chunks, filtered int, elapsed time.Duration) {
	c.documents.Add(1)
	c.chunks.Add(int64(chunks))
	c.filtered.Add(int64(filtered))
	c.elapsed.Add(int64(elapsed))
}

func (c *statsCounters) snapshot() Stats {
	return Stats{
		DocumentsProcessed: c.documents.Load(),
		ChunksProduced:     c.chunks.Load(),
		ChunksFiltered:     c.filtered.Load(),
		ProcessingTime:     time.Duration(c.elapsed.Load()),
	}
}
