package pdfreader

import "time"

// KeySeq accumulates a vim-style digit count prefix before a motion key,
// e.g. "3" "j" means "move down 3".
type KeySeq struct {
	count int
}

// Digit appends d (0-9) to the pending count. A leading zero is treated as
// the motion "gg"-adjacent `0` key, not a count digit, so callers should
// only feed Digit a non-zero first digit.
func (k *KeySeq) Digit(d int) {
	k.count = k.count*10 + d
}

// Take returns the accumulated count (at least 1) and resets it.
func (k *KeySeq) Take() int {
	n := k.count
	k.count = 0
	if n < 1 {
		return 1
	}
	return n
}

// Pending reports whether a count is currently being accumulated.
func (k *KeySeq) Pending() bool {
	return k.count > 0
}

// ViewportGeometry is the caller-supplied viewport dimensions a motion needs
// to compute scroll deltas; neither field is owned by Reader since it
// depends on the terminal's current size.
type ViewportGeometry struct {
	HeightCells int
	WidthCells  int
	DestHeight  int // total scrollable content height for the active mode
}

// HandleLineMotion implements `j`/`k`: in ModeKittyPage and ModeNonKitty a
// single line of scroll within the page; in ModeKittyScroll the same scroll
// delta against the whole continuous document.
func (r *Reader) HandleLineMotion(down bool, count int, geo ViewportGeometry) Intent {
	delta := count
	if !down {
		delta = -count
	}
	return r.ScrollBy(delta, geo.DestHeight, geo.HeightCells)
}

// HandleHalfPageMotion implements Ctrl-d/Ctrl-u: half the viewport height.
func (r *Reader) HandleHalfPageMotion(down bool, geo ViewportGeometry) Intent {
	delta := geo.HeightCells / 2
	if delta < 1 {
		delta = 1
	}
	if !down {
		delta = -delta
	}
	return r.ScrollBy(delta, geo.DestHeight, geo.HeightCells)
}

// HandleFirstPage and HandleLastPage implement `gg`/`G`.
func (r *Reader) HandleFirstPage(geo ViewportGeometry) Intent {
	return r.NavigateTo(0, geo.HeightCells, geo.WidthCells, true)
}

func (r *Reader) HandleLastPage(geo ViewportGeometry) Intent {
	return r.NavigateTo(r.PageCount-1, geo.HeightCells, geo.WidthCells, true)
}

// HandlePageStep implements explicit next/prev page navigation (ModeKittyPage
// treats `j`/`k` at a page boundary as "next/prev page" rather than scroll,
// which the caller detects and routes here instead of HandleLineMotion).
func (r *Reader) HandlePageStep(forward bool, count int, geo ViewportGeometry) Intent {
	delta := count
	if !forward {
		delta = -count
	}
	return r.NavigateTo(r.page+delta, geo.HeightCells, geo.WidthCells, true)
}

// HandleZoomKey implements `+`/`-`/`=` (in, out, reset to 1.0).
func (r *Reader) HandleZoomKey(key rune, geo ViewportGeometry, now time.Time) Intent {
	switch key {
	case '+':
		r.StepZoom(true, geo.HeightCells, now)
	case '-':
		r.StepZoom(false, geo.HeightCells, now)
	case '=':
		r.SetZoomFactor(1.0, geo.HeightCells, now)
	}
	return Intent{Kind: IntentZoomChanged}
}
