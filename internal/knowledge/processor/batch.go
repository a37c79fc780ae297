package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
	"github.com/lk2023060901/rag-chunker/internal/pkg/workerpool"
)

// Document 批量处理的输入文档
type Document struct {
	Text     string
	Metadata types.Metadata
	PresetID string // 为空时根据元数据解析
}

// Result 单个文档的处理结果
type Result struct {
	Chunks []*types.Chunk
	Err    error
}

// ChunkDocuments 在 worker pool 上并行处理多个文档，结果顺序与输入一致
//
// 未配置 worker pool 时临时创建一个，处理结束后关闭
func (e *Engine) ChunkDocuments(ctx context.Context, docs []Document) []Result {
	results := make([]Result, len(docs))
	if len(docs) == 0 {
		return results
	}

	pool := e.pool
	if pool == nil {
		p, err := workerpool.New(workerpool.DefaultConfig(), e.logger)
		if err != nil {
			for i := range results {
				results[i].Err = apperrors.Wrap(err, apperrors.ErrInternal)
			}
			return results
		}
		defer p.Shutdown(time.Second)
		pool = p
	}

	batchID := uuid.NewString()
	ctx = logger.WithBatchID(ctx, batchID)
	start := time.Now()

	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{Err: apperrors.New(apperrors.ErrInternal, fmt.Sprintf("panic: %v", r))}
				}
			}()

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			doc := docs[i]
			docCtx := logger.WithDocumentID(ctx, doc.Metadata.DocumentName())
			results[i].Chunks, results[i].Err = e.ChunkDocument(docCtx, doc.Text, doc.Metadata, doc.PresetID)
		})
		if err != nil {
			results[i].Err = err
			wg.Done()
		}
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.log(ctx).Info("batch chunked",
		zap.Int("documents", len(docs)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	return results
}
