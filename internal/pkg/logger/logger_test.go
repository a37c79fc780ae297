package logger

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "json console output",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "console",
			},
			wantErr: false,
		},
		{
			name: "file output",
			config: &Config{
				Level:  "debug",
				Format: "json",
				Output: "file",
				File: FileConfig{
					Filename:   filepath.Join(dir, "chunker.log"),
					MaxSize:    10,
					MaxAge:     7,
					MaxBackups: 3,
					Compress:   true,
				},
			},
			wantErr: false,
		},
		{
			name: "both output",
			config: &Config{
				Level:  "warn",
				Format: "json",
				Output: "both",
				File: FileConfig{
					Filename:   filepath.Join(dir, "nested", "chunker.log"),
					MaxSize:    10,
					MaxAge:     7,
					MaxBackups: 3,
				},
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: &Config{
				Level:  "verbose",
				Format: "json",
				Output: "console",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: &Config{
				Level:  "info",
				Format: "xml",
				Output: "console",
			},
			wantErr: true,
		},
		{
			name: "invalid output",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "syslog",
			},
			wantErr: true,
		},
		{
			name: "file output without filename",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "file",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "upper case level",
			config: &Config{
				Level:  "WARN",
				Format: "console",
				Output: "console",
			},
			wantErr: false,
		},
		{
			name: "zero maxsize with file output",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "file",
				File: FileConfig{
					Filename: "logs/x.log",
					MaxAge:   1,
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l == nil || l.Logger == nil {
		t.Fatal("Nop() returned nil logger")
	}
	l.Info("discarded")
	if l.Config() == nil {
		t.Error("Nop() logger has no config")
	}
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := FromZap(zap.New(core))

	ctx := context.Background()
	ctx = ToContext(ctx, base)
	ctx = WithDocumentID(ctx, "manual.pdf")
	ctx = WithPresetID(ctx, "structure")
	ctx = WithBatchID(ctx, "batch-1")

	InfoContext(ctx, "document chunked", zap.Int("chunks", 3))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["document_id"] != "manual.pdf" {
		t.Errorf("document_id = %v, want manual.pdf", fields["document_id"])
	}
	if fields["preset_id"] != "structure" {
		t.Errorf("preset_id = %v, want structure", fields["preset_id"])
	}
	if fields["batch_id"] != "batch-1" {
		t.Errorf("batch_id = %v, want batch-1", fields["batch_id"])
	}
	if fields["chunks"] != int64(3) {
		t.Errorf("chunks = %v, want 3", fields["chunks"])
	}
}

func TestContextGetters(t *testing.T) {
	ctx := context.Background()
	if GetDocumentID(ctx) != "" || GetPresetID(ctx) != "" || GetBatchID(ctx) != "" {
		t.Error("empty context should carry no ids")
	}

	ctx = WithDocumentID(ctx, "doc")
	if got := GetDocumentID(ctx); got != "doc" {
		t.Errorf("GetDocumentID() = %v, want doc", got)
	}

	// Logger without stored fields is returned as-is
	l := Nop()
	if l.WithContext(context.Background()) != l {
		t.Error("WithContext() without fields should return the same logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	SetGlobal(nil)
	if L() == nil {
		t.Fatal("L() returned nil logger")
	}

	if err := InitGlobal(&Config{Level: "error", Format: "json", Output: "console"}); err != nil {
		t.Fatalf("InitGlobal() error = %v", err)
	}
	defer SetGlobal(nil)

	Debug("debug message", zap.String("key", "value"))
	Info("info message", zap.String("key", "value"))
	Warn("warn message", zap.String("key", "value"))
	_ = Sync()
}

func TestNewWithOptions(t *testing.T) {
	logger, err := NewWithOptions(
		WithLevel("debug"),
		WithFormat("console"),
		WithOutput("console"),
		WithCaller(true),
		WithStacktrace(false),
	)
	if err != nil {
		t.Fatalf("NewWithOptions() error = %v", err)
	}
	if !logger.Config().EnableCaller {
		t.Error("WithCaller(true) not applied")
	}
	if logger.Config().EnableStacktrace {
		t.Error("WithStacktrace(false) not applied")
	}
}

func TestDevelopmentAndProduction(t *testing.T) {
	dev, err := Development()
	if err != nil {
		t.Fatalf("Development() error = %v", err)
	}
	dev.Debug("development logger")

	prod, err := Production(filepath.Join(t.TempDir(), "prod.log"))
	if err != nil {
		t.Fatalf("Production() error = %v", err)
	}
	prod.Info("production logger")
	_ = prod.Sync()

	if prod.Config().File.MaxSize != 100 {
		t.Errorf("Production() MaxSize = %d, want 100", prod.Config().File.MaxSize)
	}
}
