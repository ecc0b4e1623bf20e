package common

// PDFRenderMode selects how the PDF reader lays out pages. Scroll requires a
// Kitty-capable terminal.
//
// ENUM(page, scroll)
type PDFRenderMode int

const (
	PDFRenderModePage PDFRenderMode = iota
	PDFRenderModeScroll
)

func (m PDFRenderMode) String() string {
	switch m {
	case PDFRenderModeScroll:
		return "scroll"
	default:
		return "page"
	}
}

// GraphicsProtocol identifies the detected terminal image transport.
//
// ENUM(none, kitty, iterm2, sixel)
type GraphicsProtocol int

const (
	GraphicsProtocolNone GraphicsProtocol = iota
	GraphicsProtocolKitty
	GraphicsProtocolITerm2
	GraphicsProtocolSixel
)

func (p GraphicsProtocol) String() string {
	switch p {
	case GraphicsProtocolKitty:
		return "kitty"
	case GraphicsProtocolITerm2:
		return "iterm2"
	case GraphicsProtocolSixel:
		return "sixel"
	default:
		return "none"
	}
}

// Tiled reports whether the protocol is iTerm2 or Sixel, the two that get
// tiled into row bands the same way; it is false for Kitty and None.
func (p GraphicsProtocol) Tiled() bool {
	return p == GraphicsProtocolITerm2 || p == GraphicsProtocolSixel
}
