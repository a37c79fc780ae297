package chunker

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// 默认参数
const (
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultMinChunkSize    = 100
	DefaultMaxChunkSize    = 2000
	DefaultQualityStrategy = "basic"

	weightTolerance = 1e-6
)

// Config 分块配置（每次调用解析得到）
type Config struct {
	ChunkSize    int `mapstructure:"chunk_size" json:"chunk_size" validate:"gt=0"`
	ChunkOverlap int `mapstructure:"chunk_overlap" json:"chunk_overlap" validate:"gte=0"`
	MinChunkSize int `mapstructure:"min_chunk_size" json:"min_chunk_size" validate:"gte=0"`
	MaxChunkSize int `mapstructure:"max_chunk_size" json:"max_chunk_size" validate:"gt=0"`

	// Separators 分隔符层级（由粗到细），为空时使用 DefaultSeparators
	Separators       []string `mapstructure:"separators" json:"separators"`
	IsSeparatorRegex bool     `mapstructure:"is_separator_regex" json:"is_separator_regex"`
	KeepSeparator    bool     `mapstructure:"keep_separator" json:"keep_separator"`
	StripWhitespace  bool     `mapstructure:"strip_whitespace" json:"strip_whitespace"`
	AddStartIndex    bool     `mapstructure:"add_start_index" json:"add_start_index"`

	// PreserveContext 合并时用上一块的尾部作为新块的开头
	PreserveContext bool `mapstructure:"preserve_context" json:"preserve_context"`
	// NormalizeText 分块前规范化换行和空白，偏移量相对于规范化后的文本
	NormalizeText bool `mapstructure:"normalize_text" json:"normalize_text"`

	QualityStrategy string             `mapstructure:"quality_strategy" json:"quality_strategy"`
	QualityWeights  map[string]float64 `mapstructure:"quality_weights" json:"quality_weights,omitempty"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:        DefaultChunkSize,
		ChunkOverlap:     DefaultChunkOverlap,
		MinChunkSize:     DefaultMinChunkSize,
		MaxChunkSize:     DefaultMaxChunkSize,
		Separators:       DefaultSeparators(),
		IsSeparatorRegex: false,
		KeepSeparator:    true,
		StripWhitespace:  true,
		AddStartIndex:    true,
		PreserveContext:  true,
		QualityStrategy:  DefaultQualityStrategy,
	}
}

// Clone 深拷贝
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Separators = append([]string(nil), c.Separators...)
	if c.QualityWeights != nil {
		out.QualityWeights = make(map[string]float64, len(c.QualityWeights))
		for k, v := range c.QualityWeights {
			out.QualityWeights[k] = v
		}
	}
	return &out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// 错误信息使用配置文件中的字段名
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate 校验配置，返回的错误指明字段和合法范围
func (c *Config) Validate() error {
	if err := c.ValidateSplit(); err != nil {
		return err
	}
	if strings.TrimSpace(c.QualityStrategy) == "" {
		return apperrors.NewConfigError("quality_strategy", c.QualityStrategy, "non-empty strategy name")
	}
	return validateWeights(c.QualityWeights)
}

// ValidateSplit 只校验分块相关字段（大小、重叠、分隔符）
func (c *Config) ValidateSplit() error {
	if c == nil {
		return apperrors.New(apperrors.ErrChunkConfigInvalid, "config is required")
	}

	if err := configValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewConfigError(fe.Field(), fe.Value(), tagRange(fe))
		}
		return apperrors.Wrap(err, apperrors.ErrChunkConfigInvalid)
	}

	if c.ChunkOverlap >= c.ChunkSize {
		return apperrors.NewConfigError("chunk_overlap", c.ChunkOverlap,
			fmt.Sprintf("0 <= chunk_overlap < chunk_size (%d)", c.ChunkSize))
	}
	if c.MinChunkSize > c.MaxChunkSize {
		return apperrors.NewConfigError("min_chunk_size", c.MinChunkSize,
			fmt.Sprintf("0 <= min_chunk_size <= max_chunk_size (%d)", c.MaxChunkSize))
	}
	if c.ChunkSize > c.MaxChunkSize {
		return apperrors.NewConfigError("chunk_size", c.ChunkSize,
			fmt.Sprintf("0 < chunk_size <= max_chunk_size (%d)", c.MaxChunkSize))
	}
	if c.MinChunkSize > c.ChunkSize {
		return apperrors.NewConfigError("min_chunk_size", c.MinChunkSize,
			fmt.Sprintf("0 <= min_chunk_size <= chunk_size (%d)", c.ChunkSize))
	}

	if c.IsSeparatorRegex {
		for i, sep := range c.Separators {
			if _, err := regexp.Compile(sep); err != nil {
				e := apperrors.Wrapf(err, apperrors.ErrSeparatorInvalid, "separators[%d]=%q", i, sep)
				e.Field = "separators"
				return e
			}
		}
	}

	return nil
}

func validateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	sum := 0.0
	for _, name := range names {
		w := weights[name]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			e := apperrors.Newf(apperrors.ErrQualityWeightsInvalid, "quality_weights[%s]=%v, valid range: 0 <= weight <= 1", name, w)
			e.Field = "quality_weights"
			return e
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		e := apperrors.Newf(apperrors.ErrQualityWeightsInvalid, "quality_weights sum to %.6f, valid range: 1.0", sum)
		e.Field = "quality_weights"
		return e
	}
	return nil
}

func tagRange(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "> " + fe.Param()
	case "gte":
		return ">= " + fe.Param()
	default:
		return fe.Tag() + " " + fe.Param()
	}
}
