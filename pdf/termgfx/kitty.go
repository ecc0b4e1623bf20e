// Package termgfx emits the byte sequences for terminal graphics protocols
// (Kitty, iTerm2, Sixel, and a tiled/generic fallback) and parses the
// Kitty protocol's asynchronous replies.
package termgfx

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	esc      = "\x1b"
	apcStart = esc + "_G"
	apcEnd   = esc + "\\"

	// chunkSize is the maximum base64 payload bytes per APC escape.
	chunkSize = 4096
)

// Format is the Kitty transmission pixel format (f= key).
type Format int

const (
	FormatRGB  Format = 24
	FormatRGBA Format = 32
	FormatPNG  Format = 100
)

// TransmitDirect builds the escape sequences to transmit image bytes to the
// terminal under imageID without displaying it, chunked at 4096 base64
// payload bytes:
//
//	ESC _ G f=<fmt>,s=<w>,v=<h>,t=d,i=<id>,q=2[,m=1] ; <base64-chunk> ESC \
//
// Continuation chunks after the first carry only the minimum keys the Kitty
// protocol requires to keep identifying the transfer and its continuation
// state: `m=1,q=2` on all but the last, `m=0,q=2` on the last.
func TransmitDirect(imageID int, format Format, width, height int, data []byte) []string {
	return transmit(imageID, format, width, height, data, nil)
}

// TransmitAndDisplay builds the same chunked transmission as TransmitDirect,
// but the first chunk additionally carries placement keys c=<cols>,r=<rows>.
func TransmitAndDisplay(imageID int, format Format, width, height int, data []byte, cols, rows int) []string {
	return transmit(imageID, format, width, height, data, &placementCols{cols, rows})
}

type placementCols struct {
	cols, rows int
}

func transmit(imageID int, format Format, width, height int, data []byte, placement *placementCols) []string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) == 0 {
		encoded = ""
	}

	var chunks []string
	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		chunks = append(chunks, encoded[i:end])
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}

	out := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		var keys []string
		if i == 0 {
			keys = []string{
				fmt.Sprintf("f=%d", format),
				fmt.Sprintf("s=%d", width),
				fmt.Sprintf("v=%d", height),
				"t=d",
				fmt.Sprintf("i=%d", imageID),
			}
			if placement != nil {
				keys = append(keys, fmt.Sprintf("c=%d", placement.cols), fmt.Sprintf("r=%d", placement.rows))
			}
			keys = append(keys, "q=2")
			if len(chunks) > 1 {
				keys = append(keys, "m=1")
			}
		} else {
			m := 1
			if i == len(chunks)-1 {
				m = 0
			}
			keys = []string{fmt.Sprintf("m=%d", m), "q=2"}
		}
		out = append(out, apcStart+strings.Join(keys, ",")+";"+chunk+apcEnd)
	}
	return out
}

// DisplayExisting builds the command to display a previously-transmitted
// image at the current cursor cell position:
//
//	ESC _ G a=p,i=<id>,p=<placement>,x=<px>,y=<px>,w=<px>,h=<px>,c=<cols>,r=<rows>,C=1,q=2 ESC \
func DisplayExisting(imageID, placementID, srcX, srcY, srcW, srcH, cols, rows int) string {
	keys := []string{
		"a=p",
		fmt.Sprintf("i=%d", imageID),
		fmt.Sprintf("p=%d", placementID),
		fmt.Sprintf("x=%d", srcX),
		fmt.Sprintf("y=%d", srcY),
		fmt.Sprintf("w=%d", srcW),
		fmt.Sprintf("h=%d", srcH),
		fmt.Sprintf("c=%d", cols),
		fmt.Sprintf("r=%d", rows),
		"C=1",
		"q=2",
	}
	return apcStart + strings.Join(keys, ",") + apcEnd
}

// DeleteByID builds the single-image delete command:
//
//	ESC _ G a=d,d=i,i=<id>,q=2 ESC \
func DeleteByID(imageID int) string {
	return apcStart + fmt.Sprintf("a=d,d=i,i=%d,q=2", imageID) + apcEnd
}

// DeleteRange builds the range-delete command used when the terminal has
// been auto-detected to support it:
//
//	ESC _ G a=d,d=r,x=<start_id>,y=<end_id>,q=2 ESC \
func DeleteRange(startID, endID int) string {
	return apcStart + fmt.Sprintf("a=d,d=r,x=%d,y=%d,q=2", startID, endID) + apcEnd
}

// DeleteAll builds the delete-all-images command, emitted when switching
// away from PDF mode:
//
//	ESC _ G a=d,d=A,q=2 ESC \
func DeleteAll() string {
	return apcStart + "a=d,d=A,q=2" + apcEnd
}

// ReplyKind discriminates a parsed Kitty reply.
type ReplyKind int

const (
	ReplyOK ReplyKind = iota
	ReplyEvicted
	ReplyError
)

// Reply is a parsed Kitty asynchronous response,
// `ESC _ G i=<id>;<message> ESC \`.
type Reply struct {
	ImageID int
	Kind    ReplyKind
	Message string
}

// ParseReply parses one Kitty APC reply payload (the bytes between
// apcStart and apcEnd, exclusive). message == "ENOENT" or a message
// starting with "ENOENT" means the image was evicted; any other
// non-"OK" message is an error.
func ParseReply(payload string) (Reply, bool) {
	const prefix = "i="
	if !strings.HasPrefix(payload, prefix) {
		return Reply{}, false
	}
	rest := payload[len(prefix):]
	semi := strings.IndexByte(rest, ';')
	if semi < 0 {
		return Reply{}, false
	}
	idStr, message := rest[:semi], rest[semi+1:]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Reply{}, false
	}

	r := Reply{ImageID: id, Message: message}
	switch {
	case message == "OK":
		r.Kind = ReplyOK
	case strings.HasPrefix(message, "ENOENT"):
		r.Kind = ReplyEvicted
	default:
		r.Kind = ReplyError
	}
	return r, true
}

// ExtractReplies scans raw terminal input for complete Kitty APC replies
// (`ESC _ G ... ESC \`) and returns the parsed ones, along with the
// remaining unconsumed tail of buf (a reply may be split across reads).
func ExtractReplies(buf []byte) (replies []Reply, tail []byte) {
	data := string(buf)
	for {
		start := strings.Index(data, apcStart)
		if start < 0 {
			return replies, []byte(data)
		}
		end := strings.Index(data[start:], apcEnd)
		if end < 0 {
			return replies, []byte(data[start:])
		}
		payload := data[start+len(apcStart) : start+end]
		if r, ok := ParseReply(payload); ok {
			replies = append(replies, r)
		}
		data = data[start+end+len(apcEnd):]
	}
}
