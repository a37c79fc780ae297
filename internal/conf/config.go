package conf

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/preset"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
	"github.com/lk2023060901/rag-chunker/internal/pkg/redis"
	"github.com/lk2023060901/rag-chunker/internal/pkg/workerpool"
)

// EnvPrefix 环境变量前缀，例如 CHUNKER_CHUNKING_DEFAULT_PRESET
const EnvPrefix = "CHUNKER"

// 质量缓存后端
const (
	CacheBackendLRU   = "lru"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

type Config struct {
	Log       logger.Config     `mapstructure:"log"`
	Chunking  ChunkingConfig    `mapstructure:"chunking"`
	Quality   QualityConfig     `mapstructure:"quality"`
	Redis     redis.Config      `mapstructure:"redis"`
	Tokenizer TokenizerConfig   `mapstructure:"tokenizer"`
	Worker    workerpool.Config `mapstructure:"worker"`
}

type ChunkingConfig struct {
	DefaultPreset string `mapstructure:"default_preset" validate:"required"`
	// PreserveContext 非空时覆盖所有预设的 preserve_context
	PreserveContext *bool                    `mapstructure:"preserve_context"`
	Presets         map[string]*preset.Patch `mapstructure:"presets"`
}

type QualityConfig struct {
	Cache CacheConfig `mapstructure:"cache"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend" validate:"oneof=lru redis none"`
	Size    int           `mapstructure:"size" validate:"gte=0"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gte=0"`
	Prefix  string        `mapstructure:"prefix"`
}

type TokenizerConfig struct {
	// Encoding tiktoken 编码名，为空时使用估算
	Encoding string `mapstructure:"encoding"`
}

func setDefaults(v *viper.Viper) {
	log := logger.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.output", log.Output)
	v.SetDefault("log.enablecaller", log.EnableCaller)
	v.SetDefault("log.enablestacktrace", log.EnableStacktrace)
	v.SetDefault("log.file.filename", log.File.Filename)
	v.SetDefault("log.file.maxsize", log.File.MaxSize)
	v.SetDefault("log.file.maxage", log.File.MaxAge)
	v.SetDefault("log.file.maxbackups", log.File.MaxBackups)
	v.SetDefault("log.file.compress", log.File.Compress)

	v.SetDefault("chunking.default_preset", preset.IDDefault)

	v.SetDefault("quality.cache.backend", CacheBackendLRU)
	v.SetDefault("quality.cache.size", 1000)
	v.SetDefault("quality.cache.ttl", 24*time.Hour)
	v.SetDefault("quality.cache.prefix", "chunker:quality:")

	rc := redis.DefaultConfig()
	v.SetDefault("redis.addr", rc.Addr)
	v.SetDefault("redis.db", rc.DB)
	v.SetDefault("redis.pool_size", rc.PoolSize)
	v.SetDefault("redis.min_idle_conns", rc.MinIdleConns)
	v.SetDefault("redis.dial_timeout", rc.DialTimeout)
	v.SetDefault("redis.read_timeout", rc.ReadTimeout)
	v.SetDefault("redis.write_timeout", rc.WriteTimeout)
	v.SetDefault("redis.pool_timeout", rc.PoolTimeout)
	v.SetDefault("redis.max_retries", rc.MaxRetries)
	v.SetDefault("redis.min_retry_backoff", rc.MinRetryBackoff)
	v.SetDefault("redis.max_retry_backoff", rc.MaxRetryBackoff)
	v.SetDefault("redis.conn_max_idle_time", rc.ConnMaxIdleTime)

	wc := workerpool.DefaultConfig()
	v.SetDefault("worker.workers", wc.Workers)
	v.SetDefault("worker.expiry_duration", wc.ExpiryDuration)
	v.SetDefault("worker.nonblocking", wc.Nonblocking)
}

// LoadConfig 读取配置文件，path 为空时只使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 校验各配置段
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	if c.Quality.Cache.Backend == CacheBackendRedis {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("invalid redis config: %w", err)
		}
	}
	return nil
}

// ApplyChunking 将预设覆盖写入注册表并设置默认预设
//
// 覆盖按预设 ID 排序依次应用，任一覆盖非法时返回该错误
func (c *ChunkingConfig) ApplyChunking(reg *preset.Registry) error {
	ids := make([]string, 0, len(c.Presets))
	for id := range c.Presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := reg.Override(id, c.Presets[id]); err != nil {
			return fmt.Errorf("preset %q: %w", id, err)
		}
	}

	if c.PreserveContext != nil {
		for _, id := range reg.IDs() {
			if err := reg.Override(id, &preset.Patch{PreserveContext: c.PreserveContext}); err != nil {
				return fmt.Errorf("preset %q: %w", id, err)
			}
		}
	}

	if c.DefaultPreset != "" {
		return reg.SetDefault(c.DefaultPreset)
	}
	return nil
}
