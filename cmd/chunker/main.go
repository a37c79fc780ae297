package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/conf"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/chunker"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/loader"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/preset"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/processor"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/quality"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
	"github.com/lk2023060901/rag-chunker/internal/pkg/redis"
	"github.com/lk2023060901/rag-chunker/internal/pkg/workerpool"
)

var (
	configFile = flag.String("config", "", "config file path (defaults and CHUNKER_* env only when empty)")
	inputFile  = flag.String("file", "", "document to chunk (.txt, .md, .json); extra paths may follow as arguments")
	presetID   = flag.String("preset", "", "preset id, resolved from the document metadata when empty")
	title      = flag.String("title", "", "document title used for preset resolution")
	docType    = flag.String("doc-type", "", "document type used for preset resolution")
	jsonOutput = flag.Bool("json", false, "print the result as JSON")
)

// fileOutput 单个文件的输出
type fileOutput struct {
	File       string                      `json:"file"`
	PresetID   string                      `json:"preset_id"`
	Error      string                      `json:"error,omitempty"`
	Chunks     []*types.Chunk              `json:"chunks,omitempty"`
	Validation *processor.ValidationReport `json:"validation,omitempty"`
	Quality    *quality.Report             `json:"quality,omitempty"`
}

// output 命令输出
type output struct {
	Files   []*fileOutput      `json:"files"`
	Stats   processor.Stats    `json:"stats"`
	Metrics map[string]float64 `json:"metrics"`
}

func main() {
	flag.Parse()

	files := flag.Args()
	if *inputFile != "" {
		files = append([]string{*inputFile}, files...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: chunker -file <path> [paths...] [-config config.yaml] [-preset id] [-title t] [-doc-type t] [-json]")
		os.Exit(2)
	}

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	logger.SetGlobal(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, registry, cleanup, err := newEngine(config, log)
	if err != nil {
		log.Fatal("failed to initialize chunking engine", zap.Error(err))
	}
	defer cleanup()

	// 加载失败的文件单独记录错误，不参与分块
	factory := loader.NewFactory()
	out := &output{Files: make([]*fileOutput, len(files))}
	docs := make([]processor.Document, 0, len(files))
	loaded := make([]*fileOutput, 0, len(files))
	for i, path := range files {
		fo := &fileOutput{File: path, PresetID: *presetID}
		out.Files[i] = fo

		doc, err := factory.LoadFile(ctx, path)
		if err != nil {
			log.Error("failed to load document", zap.String("file", path), zap.Error(err))
			fo.Error = err.Error()
			continue
		}
		if *title != "" {
			doc.Metadata[types.MetaTitle] = *title
		}
		if *docType != "" {
			doc.Metadata[types.MetaDocumentType] = *docType
		}
		docs = append(docs, processor.Document{Text: doc.Content, Metadata: doc.Metadata, PresetID: *presetID})
		loaded = append(loaded, fo)
	}

	results := engine.ChunkDocuments(ctx, docs)
	for i, res := range results {
		fillOutput(engine, loaded[i], res)
	}

	out.Stats = engine.Stats()
	out.Metrics = gatherMetrics(registry, log)

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatal("failed to encode output", zap.Error(err))
		}
		return
	}
	printText(out)
}

// fillOutput 写入分块结果及校验、质量报告
func fillOutput(engine *processor.Engine, fo *fileOutput, res processor.Result) {
	if res.Err != nil {
		fo.Error = res.Err.Error()
		return
	}
	fo.Chunks = res.Chunks
	if len(res.Chunks) > 0 {
		fo.PresetID = res.Chunks[0].ChunkType
	}

	var cfg *chunker.Config
	if p, ok := engine.Registry().Get(fo.PresetID); ok {
		cfg = p.Config
	}
	fo.Validation = processor.ValidateChunks(res.Chunks, cfg)

	metrics := make([]*types.QualityMetrics, len(res.Chunks))
	for i, c := range res.Chunks {
		metrics[i] = c.Quality
	}
	fo.Quality = quality.Analyze(metrics, 0)
}

// gatherMetrics 汇总计数器和直方图样本数，按指标名（不含标签）累加
func gatherMetrics(registry *prometheus.Registry, log *logger.Logger) map[string]float64 {
	families, err := registry.Gather()
	if err != nil {
		log.Warn("failed to gather metrics", zap.Error(err))
		return nil
	}

	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				out[mf.GetName()] += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				out[mf.GetName()+"_count"] += float64(h.GetSampleCount())
				out[mf.GetName()+"_sum"] += h.GetSampleSum()
			}
		}
	}
	return out
}

// newEngine 根据配置组装分块引擎和指标注册表，返回的 cleanup 释放 worker pool 和 redis 连接
func newEngine(config *conf.Config, log *logger.Logger) (*processor.Engine, *prometheus.Registry, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	presets := preset.NewRegistry()
	if err := config.Chunking.ApplyChunking(presets); err != nil {
		return nil, nil, cleanup, err
	}

	var counter chunker.TokenCounter = chunker.EstimateCounter{}
	if config.Tokenizer.Encoding != "" {
		tc, err := chunker.NewTiktokenCounter(config.Tokenizer.Encoding)
		if err != nil {
			log.Warn("tiktoken unavailable, falling back to estimation",
				zap.String("encoding", config.Tokenizer.Encoding), zap.Error(err))
		} else {
			counter = tc
		}
	}

	assessorOpts := []quality.Option{quality.WithLogger(log.Named("quality"))}
	cacheCfg := config.Quality.Cache
	switch cacheCfg.Backend {
	case conf.CacheBackendLRU:
		cache, err := quality.NewLRUCache(cacheCfg.Size)
		if err != nil {
			return nil, nil, cleanup, err
		}
		assessorOpts = append(assessorOpts, quality.WithCache(cache))
	case conf.CacheBackendRedis:
		client, err := redis.New(&config.Redis, log.Named("redis"))
		if err != nil {
			// 缓存不可用时继续运行
			log.Warn("redis unavailable, quality cache disabled", zap.Error(err))
			break
		}
		cleanups = append(cleanups, func() { client.Close() })
		assessorOpts = append(assessorOpts, quality.WithCache(
			quality.NewRedisCache(client, cacheCfg.TTL, cacheCfg.Prefix, log.Named("quality-cache"))))
	}

	pool, err := workerpool.New(&config.Worker, log.Named("workerpool"))
	if err != nil {
		return nil, nil, cleanup, err
	}
	cleanups = append(cleanups, func() { pool.Shutdown(5 * time.Second) })

	registry := prometheus.NewRegistry()
	metrics, err := processor.NewMetrics(registry)
	if err != nil {
		return nil, nil, cleanup, err
	}

	engine := processor.New(
		processor.WithRegistry(presets),
		processor.WithTokenCounter(counter),
		processor.WithAssessor(quality.NewAssessor(assessorOpts...)),
		processor.WithWorkerPool(pool),
		processor.WithMetrics(metrics),
		processor.WithLogger(log.Named("processor")),
	)
	return engine, registry, cleanup, nil
}

func printText(out *output) {
	for _, fo := range out.Files {
		printFile(fo)
	}

	st := out.Stats
	fmt.Printf("\ndocuments: %d chunks: %d filtered: %d elapsed: %s\n",
		st.DocumentsProcessed, st.ChunksProduced, st.ChunksFiltered, st.ProcessingTime)
	names := make([]string, 0, len(out.Metrics))
	for name := range out.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s %g\n", name, out.Metrics[name])
	}
}

func printFile(fo *fileOutput) {
	fmt.Printf("file: %s\npreset: %s\n", fo.File, fo.PresetID)
	if fo.Error != "" {
		fmt.Printf("error: %s\n\n", fo.Error)
		return
	}
	fmt.Printf("chunks: %d\n\n", len(fo.Chunks))

	for _, c := range fo.Chunks {
		fmt.Printf("--- %s [%d:%d] chars=%d tokens=%d quality=%.2f (%s)\n",
			c.ChunkID, c.StartPosition, c.EndPosition, c.CharacterCount, c.TokenCount,
			c.QualityScore, quality.Grade(c.QualityScore))
		fmt.Println(c.Content)
	}

	v := fo.Validation
	fmt.Printf("\nvalidation: valid=%v min=%d max=%d avg=%.1f\n", v.Valid, v.MinSize, v.MaxSize, v.AvgSize)
	for _, issue := range v.Issues {
		fmt.Printf("  - %s\n", issue)
	}

	q := fo.Quality
	fmt.Printf("quality: mean=%.3f min=%.3f max=%.3f stddev=%.3f low=%d\n", q.Mean, q.Min, q.Max, q.StdDev, q.LowQualityCount)
	grades := make([]string, 0, len(q.Grades))
	for _, g := range []string{quality.GradeExcellent, quality.GradeGood, quality.GradeFair, quality.GradePoor} {
		grades = append(grades, fmt.Sprintf("%s=%d", g, q.Grades[g]))
	}
	fmt.Printf("grades: %s\n\n", strings.Join(grades, " "))
}
