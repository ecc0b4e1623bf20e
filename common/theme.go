package common

// Theme is an explicit, passed-by-value palette. Reflow and the PDF converter
// both take a Theme as an argument rather than reaching for global state, so
// the same document rendered under two themes produces two independent sets
// of rendered lines/images with no shared mutable state.
type Theme struct {
	Name string

	Text           Style
	Heading        Style
	LinkExternal   Style
	LinkChapter    Style
	LinkAnchor     Style
	LinkFocused    Style
	Code           Style
	Quote          Style
	Highlight      Style
	Cursor         Style
	VisualSelect   Style
	SearchMatch    Style
	SearchCurrent  Style
	Hud            Style
	HudError       Style

	// BlackRGB/WhiteRGB seed the PDF rasterizer's two-tone render (used as
	// part of the render service's page cache key).
	BlackRGB, WhiteRGB [3]uint8
}

// Style is a minimal, protocol-agnostic text style descriptor. Both the
// reflow engine's rendered spans and the PDF converter's overlay renderer
// translate Style into their own terminal representation (lipgloss.Style
// for text, RGBA burn-in for baked PDF overlays).
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	FG        [3]uint8
	BG        [3]uint8
	HasBG     bool
}

// DefaultTheme is used when no settings bag override is present.
func DefaultTheme() Theme {
	return Theme{
		Name:          "default",
		Text:          Style{FG: [3]uint8{220, 220, 220}},
		Heading:       Style{Bold: true, FG: [3]uint8{255, 255, 255}},
		LinkExternal:  Style{Underline: true, FG: [3]uint8{97, 175, 239}},
		LinkChapter:   Style{Underline: true, FG: [3]uint8{152, 195, 121}},
		LinkAnchor:    Style{Underline: true, FG: [3]uint8{198, 120, 221}},
		LinkFocused:   Style{Underline: true, Bold: true, FG: [3]uint8{229, 192, 123}, BG: [3]uint8{60, 60, 60}, HasBG: true},
		Code:          Style{FG: [3]uint8{209, 154, 102}},
		Quote:         Style{Italic: true, FG: [3]uint8{150, 150, 150}},
		Highlight:     Style{BG: [3]uint8{90, 80, 30}, HasBG: true},
		Cursor:        Style{BG: [3]uint8{97, 175, 239}, HasBG: true},
		VisualSelect:  Style{BG: [3]uint8{60, 80, 110}, HasBG: true},
		SearchMatch:   Style{BG: [3]uint8{110, 90, 30}, HasBG: true},
		SearchCurrent: Style{BG: [3]uint8{200, 140, 40}, HasBG: true},
		Hud:           Style{FG: [3]uint8{180, 180, 180}},
		HudError:      Style{FG: [3]uint8{220, 90, 90}},
		BlackRGB:      [3]uint8{0, 0, 0},
		WhiteRGB:      [3]uint8{255, 255, 255},
	}
}
