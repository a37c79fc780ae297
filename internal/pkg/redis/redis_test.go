package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	client, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, client)

	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		config  func() *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Addr = mr.Addr()
				return cfg
			},
			wantErr: false,
		},
		{
			name: "missing addr",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Addr = ""
				return cfg
			},
			wantErr: true,
		},
		{
			name: "unreachable server",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Addr = "127.0.0.1:1"
				cfg.DialTimeout = 200 * time.Millisecond
				cfg.MaxRetries = 0
				return cfg
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config(), nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, client.Close())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(cfg *Config) {}},
		{name: "db out of range", mutate: func(cfg *Config) { cfg.DB = 16 }, wantErr: true},
		{name: "zero pool size", mutate: func(cfg *Config) { cfg.PoolSize = 0 }, wantErr: true},
		{name: "idle above pool", mutate: func(cfg *Config) { cfg.MinIdleConns = cfg.PoolSize + 1 }, wantErr: true},
		{name: "zero dial timeout", mutate: func(cfg *Config) { cfg.DialTimeout = 0 }, wantErr: true},
		{name: "backoff inverted", mutate: func(cfg *Config) { cfg.MinRetryBackoff = time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestStringOperations(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", time.Minute))

	val, err := client.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	raw, err := client.GetBytes(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), raw)

	ttl, err := client.TTL(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	n, err := client.Exists(ctx, "k1", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = client.Get(ctx, "missing")
	assert.True(t, IsNil(err))

	// 过期后读取不到
	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "k1")
	assert.True(t, IsNil(err))
}

func TestDeleteByPrefix(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	for _, key := range []string{"quality:a", "quality:b", "quality:c", "other:a"} {
		require.NoError(t, client.Set(ctx, key, "1", 0))
	}

	deleted, err := client.DeleteByPrefix(ctx, "quality:", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	n, err := client.Exists(ctx, "other:a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteByPrefix_ManyBatches(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, client.Set(ctx, fmt.Sprintf("quality:%02d", i), "1", 0))
		require.NoError(t, client.Set(ctx, fmt.Sprintf("other:%02d", i), "1", 0))
	}

	deleted, err := client.DeleteByPrefix(ctx, "quality:", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(25), deleted)

	deleted, err = client.DeleteByPrefix(ctx, "quality:", 4)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	n, err := client.Exists(ctx, "other:00", "other:24")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPingAfterClose(t *testing.T) {
	client, _ := setupTestClient(t)
	require.NoError(t, client.Close())

	err := client.Ping(context.Background())
	assert.True(t, IsClosed(err))
}
