package termgfx

import (
	"encoding/base64"
	"fmt"
)

// EncodeITerm2Inline builds the iTerm2 inline-image OSC sequence used by the
// Generic ConvertedImage backend for terminals that advertise the iTerm2
// image protocol but not Kitty graphics.
//
//	ESC ] 1337 ; File=inline=1;width=<cols>;height=<rows>;preserveAspectRatio=0:<base64> BEL
func EncodeITerm2Inline(data []byte, widthCells, heightCells int) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("%s]1337;File=inline=1;width=%d;height=%d;preserveAspectRatio=0:%s\a",
		esc, widthCells, heightCells, encoded)
}
