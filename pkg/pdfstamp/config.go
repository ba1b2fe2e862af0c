package pdfstamp

import (
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	DefaultFontSize        = 11.0
	DefaultTimestampLayout = "02/01/2006 15:04"
)

type Config struct {
	// Path to a .ttf/.otf file. When empty, the embedded Latin Modern faces are used.
	FontPath        string
	FontSize        float64
	TimestampLayout string
	Now             func() time.Time
}

func NewDefaultConfig() *Config {
	return &Config{
		FontSize:        DefaultFontSize,
		TimestampLayout: DefaultTimestampLayout,
		Now:             time.Now,
	}
}

// Engine stamps, merges and renders PDF documents held in memory.
type Engine struct {
	cfg *Config
}

func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = DefaultTimestampLayout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg}
}

// pdfcpu mutates the configuration per command, so every call gets its own.
func pdfConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
