package preset

import (
	"sort"
	"sync"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/chunker"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/quality"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// Preset 命名的分块配置
type Preset struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Config      *chunker.Config `json:"config"`
}

// Clone 深拷贝
func (p *Preset) Clone() *Preset {
	if p == nil {
		return nil
	}
	out := *p
	out.Config = p.Config.Clone()
	return &out
}

// Patch 配置文件中的预设覆盖项，nil 字段保持原值
type Patch struct {
	Description      *string            `mapstructure:"description"`
	ChunkSize        *int               `mapstructure:"chunk_size"`
	ChunkOverlap     *int               `mapstructure:"chunk_overlap"`
	MinChunkSize     *int               `mapstructure:"min_chunk_size"`
	MaxChunkSize     *int               `mapstructure:"max_chunk_size"`
	Separators       []string           `mapstructure:"separators"`
	IsSeparatorRegex *bool              `mapstructure:"is_separator_regex"`
	KeepSeparator    *bool              `mapstructure:"keep_separator"`
	StripWhitespace  *bool              `mapstructure:"strip_whitespace"`
	AddStartIndex    *bool              `mapstructure:"add_start_index"`
	PreserveContext  *bool              `mapstructure:"preserve_context"`
	NormalizeText    *bool              `mapstructure:"normalize_text"`
	QualityStrategy  *string            `mapstructure:"quality_strategy"`
	QualityWeights   map[string]float64 `mapstructure:"quality_weights"`
}

// apply 将覆盖项写入 cfg
func (p *Patch) apply(cfg *chunker.Config) {
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setInt(&cfg.ChunkSize, p.ChunkSize)
	setInt(&cfg.ChunkOverlap, p.ChunkOverlap)
	setInt(&cfg.MinChunkSize, p.MinChunkSize)
	setInt(&cfg.MaxChunkSize, p.MaxChunkSize)
	if p.Separators != nil {
		cfg.Separators = append([]string(nil), p.Separators...)
	}
	setBool(&cfg.IsSeparatorRegex, p.IsSeparatorRegex)
	setBool(&cfg.KeepSeparator, p.KeepSeparator)
	setBool(&cfg.StripWhitespace, p.StripWhitespace)
	setBool(&cfg.AddStartIndex, p.AddStartIndex)
	setBool(&cfg.PreserveContext, p.PreserveContext)
	setBool(&cfg.NormalizeText, p.NormalizeText)
	if p.QualityStrategy != nil && *p.QualityStrategy != cfg.QualityStrategy {
		cfg.QualityStrategy = *p.QualityStrategy
		// 换了策略，原权重不再适用
		cfg.QualityWeights = nil
	}
	if p.QualityWeights != nil {
		cfg.QualityWeights = make(map[string]float64, len(p.QualityWeights))
		for k, v := range p.QualityWeights {
			cfg.QualityWeights[k] = v
		}
	}
}

// Registry 预设注册表（并发安全）
type Registry struct {
	mu        sync.RWMutex
	presets   map[string]*Preset
	defaultID string
}

// NewRegistry 创建包含全部内置预设的注册表
func NewRegistry() *Registry {
	r := &Registry{
		presets:   make(map[string]*Preset),
		defaultID: IDDefault,
	}
	for _, p := range builtins() {
		r.presets[p.ID] = p
	}
	return r
}

// Get 返回预设副本
func (r *Registry) Get(id string) (*Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.presets[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Lookup 返回预设副本，未知 ID 返回 ErrPresetNotFound
func (r *Registry) Lookup(id string) (*Preset, error) {
	if p, ok := r.Get(id); ok {
		return p, nil
	}
	return nil, apperrors.NewPresetNotFoundError(id, r.IDs())
}

// Has 预设是否存在
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.presets[id]
	return ok
}

// IDs 全部预设 ID（排序）
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.presets))
	for id := range r.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultID 默认预设 ID
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// Default 默认预设副本
func (r *Registry) Default() *Preset {
	p, _ := r.Get(r.DefaultID())
	return p
}

// SetDefault 修改默认预设
func (r *Registry) SetDefault(id string) error {
	if !r.Has(id) {
		return apperrors.NewPresetNotFoundError(id, r.IDs())
	}

	r.mu.Lock()
	r.defaultID = id
	r.mu.Unlock()
	return nil
}

// Override 覆盖已有预设或以默认配置为基础注册新预设，覆盖后的配置立即校验
func (r *Registry) Override(id string, patch *Patch) error {
	if id == "" {
		e := apperrors.New(apperrors.ErrChunkConfigInvalid, "preset id is required")
		e.Field = "preset_id"
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var p *Preset
	if existing, ok := r.presets[id]; ok {
		p = existing.Clone()
	} else {
		p = &Preset{ID: id, Config: chunker.DefaultConfig()}
	}

	if patch != nil {
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		patch.apply(p.Config)
	}

	if err := ValidateConfig(p.Config); err != nil {
		return err
	}

	r.presets[id] = p
	return nil
}

// ValidateConfig 校验分块配置和质量策略
func ValidateConfig(cfg *chunker.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !quality.HasStrategy(cfg.QualityStrategy) {
		return apperrors.NewStrategyNotFoundError(cfg.QualityStrategy, quality.Strategies())
	}
	return quality.ValidateWeights(cfg.QualityStrategy, cfg.QualityWeights)
}
