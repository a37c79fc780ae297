package workerpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmit(t *testing.T) {
	p, err := New(&Config{Workers: 4}, nil)
	require.NoError(t, err)
	defer p.Shutdown(time.Second)

	var (
		wg    sync.WaitGroup
		count atomic.Int64
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(100), count.Load())
	assert.Equal(t, 4, p.Cap())

	stats := p.Stats()
	assert.Equal(t, int64(100), stats.Submitted)
	assert.Eventually(t, func() bool {
		return p.Stats().Completed == 100
	}, time.Second, 10*time.Millisecond)
}

func TestPoolSubmitWithResult(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)
	defer p.Shutdown(time.Second)

	res := <-p.SubmitWithResult(func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, res.Error)
	assert.Equal(t, 42, res.Data)

	boom := errors.New("boom")
	res = <-p.SubmitWithResult(func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, res.Error, boom)
}

func TestPoolPanic(t *testing.T) {
	p, err := New(&Config{Workers: 1}, nil)
	require.NoError(t, err)
	defer p.Shutdown(time.Second)

	require.NoError(t, p.Submit(func() { panic("boom") }))

	assert.Eventually(t, func() bool {
		return p.Stats().Failed == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(0), p.Stats().Completed)
}

func TestPoolShutdown(t *testing.T) {
	p, err := New(&Config{Workers: 2}, nil)
	require.NoError(t, err)

	require.NoError(t, p.Shutdown(time.Second))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)

	res := <-p.SubmitWithResult(func() (interface{}, error) { return 1, nil })
	assert.ErrorIs(t, res.Error, ErrPoolClosed)

	// 重复关闭无副作用
	assert.NoError(t, p.Shutdown(time.Second))
}

func TestPoolTune(t *testing.T) {
	p, err := New(&Config{Workers: 2}, nil)
	require.NoError(t, err)
	defer p.Shutdown(time.Second)

	require.NoError(t, p.Tune(8))
	assert.Equal(t, 8, p.Cap())
	assert.Error(t, p.Tune(0))
}
