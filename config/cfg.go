package config

import (
	"bytes"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

type (
	// PDFConfig holds ambient defaults for the PDF rendering pipeline that are
	// not part of the external settings bag: worker pool size, the Kitty
	// cache window radius, and the continuous-scroll sticky-page ratio.
	PDFConfig struct {
		WorkerCount      int     `yaml:"worker_count" validate:"min=1,max=16"`
		CacheWindowPages int     `yaml:"cache_window_pages" validate:"min=1"`
		StickyPageRatio  float64 `yaml:"sticky_page_ratio" validate:"gte=0,lte=1"`
		DefaultScale     float64 `yaml:"default_scale" validate:"gte=0.5,lte=4.0"`
		MinScale         float64 `yaml:"min_scale" validate:"gte=0.1"`
		MaxScale         float64 `yaml:"max_scale" validate:"gtefield=MinScale"`
		ZoomStep         float64 `yaml:"zoom_step" validate:"gt=1.0"`
	}

	// ReaderConfig holds ambient defaults for the reading engines.
	ReaderConfig struct {
		DefaultMargin       int     `yaml:"default_margin" validate:"gte=0"`
		DefaultTheme        string  `yaml:"default_theme" validate:"required"`
		Scrolloff           int     `yaml:"scrolloff" validate:"gte=0"`
		JumpListCapacity    int     `yaml:"jump_list_capacity" validate:"min=1,max=1000"`
		BookmarkThrottleMS  int     `yaml:"bookmark_throttle_ms" validate:"min=0"`
		YankHighlightMS     int     `yaml:"yank_highlight_ms" validate:"min=0"`
		CommentSidebarMinCols int   `yaml:"comment_sidebar_min_cols" validate:"min=1"`
		PDF                 PDFConfig `yaml:"pdf"`
	}

	// Config is the reader process's local ambient configuration. It is
	// distinct from config.SettingsBag: Config covers things a
	// settings popup never exposes (log destinations, the debug reporter,
	// worker counts), while SettingsBag is the narrow externally-owned
	// key/value store the core queries for user-tunable behavior.
	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
		Reader    ReaderConfig   `yaml:"reader"`
	}
)

// DefaultConfig returns sane defaults (cache window 10, sticky ratio 0.40).
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
		Reader: ReaderConfig{
			DefaultMargin:         4,
			DefaultTheme:          "default",
			Scrolloff:             3,
			JumpListCapacity:      100,
			BookmarkThrottleMS:    500,
			YankHighlightMS:       250,
			CommentSidebarMinCols: 24,
			PDF: PDFConfig{
				WorkerCount:      2,
				CacheWindowPages: 10,
				StickyPageRatio:  0.40,
				DefaultScale:     1.0,
				MinScale:         0.5,
				MaxScale:         4.0,
				ZoomStep:         1.1,
			},
		},
	}
}

var validate = validator.New()

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads configuration from path, superimposing it on top of
// DefaultConfig(). An empty path returns the defaults unvalidated against a
// file (still structurally valid).
func LoadConfiguration(path string) (*Config, error) {
	cfg := DefaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshalConfig(data, cfg)
}

// Dump marshals cfg back to YAML, for inclusion in a debug report.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Prepare returns the embedded default configuration as YAML, for
// `dumpconfig --default`.
func Prepare() ([]byte, error) {
	return Dump(DefaultConfig())
}
