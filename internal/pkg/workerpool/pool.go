package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
)

// TaskResult 任务结果
type TaskResult struct {
	Data  interface{}
	Error error
}

// ============= 配置 =============

// Config Worker Pool 配置
type Config struct {
	Workers        int           `mapstructure:"workers"`         // worker 数量
	ExpiryDuration time.Duration `mapstructure:"expiry_duration"` // 空闲 worker 回收间隔
	Nonblocking    bool          `mapstructure:"nonblocking"`     // 池满时直接返回错误
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Workers:        runtime.NumCPU(),
		ExpiryDuration: time.Second,
		Nonblocking:    false,
	}
}

// ============= 统计信息 =============

// Statistics 统计信息
type Statistics struct {
	Submitted int64 // 已提交
	Completed int64 // 已完成
	Failed    int64 // 失败（panic 或提交失败）
	Running   int64 // 运行中
}

type counters struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	running   atomic.Int64
}

// ============= Worker Pool =============

// Pool 基于 ants 的 Worker Pool
type Pool struct {
	pool   *ants.Pool
	config *Config
	stats  counters
	closed atomic.Bool
	logger *logger.Logger
}

// New 创建 Worker Pool
func New(config *Config, log *logger.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	size := config.Workers
	if size <= 0 {
		size = runtime.NumCPU()
	}

	p := &Pool{
		config: config,
		logger: log,
	}

	opts := []ants.Option{
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(err interface{}) {
			p.stats.failed.Add(1)
			p.logger.Error("worker panic", zap.Any("error", err))
		}),
	}
	if config.ExpiryDuration > 0 {
		opts = append(opts, ants.WithExpiryDuration(config.ExpiryDuration))
	}

	antsPool, err := ants.NewPool(size, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.stats.submitted.Add(1)
	err := p.pool.Submit(func() {
		p.stats.running.Add(1)
		defer p.stats.running.Add(-1)
		task()
		p.stats.completed.Add(1)
	})
	if err != nil {
		p.stats.failed.Add(1)
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// SubmitWithResult 提交任务并获取结果，提交失败时结果中带错误
func (p *Pool) SubmitWithResult(task func() (interface{}, error)) <-chan TaskResult {
	resultCh := make(chan TaskResult, 1)

	err := p.Submit(func() {
		defer close(resultCh)
		result, err := task()
		resultCh <- TaskResult{Data: result, Error: err}
	})
	if err != nil {
		resultCh <- TaskResult{Error: err}
		close(resultCh)
	}

	return resultCh
}

// Running 获取运行中的 worker 数量
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free 获取空闲 worker 数量
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Cap 获取容量
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats 获取统计信息
func (p *Pool) Stats() Statistics {
	return Statistics{
		Submitted: p.stats.submitted.Load(),
		Completed: p.stats.completed.Load(),
		Failed:    p.stats.failed.Load(),
		Running:   p.stats.running.Load(),
	}
}

// Tune 调整 worker 数量
func (p *Pool) Tune(size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid size: %d", size)
	}

	p.logger.Info("worker pool resized",
		zap.Int("from", p.pool.Cap()),
		zap.Int("to", size))

	p.pool.Tune(size)
	return nil
}

// Shutdown 等待已提交任务完成后关闭
func (p *Pool) Shutdown(timeout time.Duration) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	if timeout <= 0 {
		p.pool.Release()
		return nil
	}
	return p.pool.ReleaseTimeout(timeout)
}
