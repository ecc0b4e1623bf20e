package config

import "github.com/bugzmanov/bookokrat/common"

// SettingsBag is the external, caller-owned key/value store the core only
// queries; its storage is external to the core. Its concrete storage (a
// settings popup, a TOML file, whatever the host application uses) is out
// of this repository's scope; only the interface the core depends on lives
// here.
type SettingsBag interface {
	IsPDFEnabled() bool
	GetPDFRenderMode() common.PDFRenderMode
	GetMargin() int
	GetPDFScale() float64
	GetPDFPanFromLeft() int
	GetThemeName() string
}

// StaticSettings is a fixed-value SettingsBag, useful for tests and as a
// fallback before the host application's real bag is wired in.
type StaticSettings struct {
	PDFEnabled     bool
	RenderMode     common.PDFRenderMode
	Margin         int
	PDFScale       float64
	PDFPanFromLeft int
	ThemeName      string
}

func (s StaticSettings) IsPDFEnabled() bool                        { return s.PDFEnabled }
func (s StaticSettings) GetPDFRenderMode() common.PDFRenderMode     { return s.RenderMode }
func (s StaticSettings) GetMargin() int                             { return s.Margin }
func (s StaticSettings) GetPDFScale() float64                       { return s.PDFScale }
func (s StaticSettings) GetPDFPanFromLeft() int                     { return s.PDFPanFromLeft }
func (s StaticSettings) GetThemeName() string                       { return s.ThemeName }

// DefaultSettings builds a StaticSettings from Config defaults, used when no
// host-provided bag is available yet.
func DefaultSettings(cfg *Config) StaticSettings {
	return StaticSettings{
		PDFEnabled:     true,
		RenderMode:     common.PDFRenderModePage,
		Margin:         cfg.Reader.DefaultMargin,
		PDFScale:       cfg.Reader.PDF.DefaultScale,
		PDFPanFromLeft: 0,
		ThemeName:      cfg.Reader.DefaultTheme,
	}
}
