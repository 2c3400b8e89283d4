package vt

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"
)

// Callbacks are hooks into terminal state changes observed while
// feeding output. All callbacks are optional.
type Callbacks struct {
	// Title fires when the application sets the window title via
	// OSC 0 or OSC 2.
	Title func(title string)
}

// Emulator is a virtual terminal: it consumes a shell's raw output
// byte stream and maintains the screen grid the bytes describe. All
// parsing state lives in the embedded ansi.Parser and the grid, so
// feeding a stream in arbitrary chunks yields the same model as
// feeding it whole.
type Emulator struct {
	// Primary and alternate screens plus a pointer to the active one.
	scrs [2]*Screen
	scr  *Screen

	scrollback *Scrollback

	// The current pen. Printed cells take a copy of it.
	style Style

	// The ANSI parser driving the handlers below.
	parser *ansi.Parser

	cb Callbacks

	title string

	autowrap     bool
	cursorHidden bool
	altScreen    bool
}

// NewEmulator creates an emulator with the given grid dimensions. The
// dimensions are fixed for the emulator's lifetime.
func NewEmulator(width, height int) *Emulator {
	e := &Emulator{
		scrollback: NewScrollback(DefaultScrollbackLines),
		autowrap:   true,
	}
	e.scrs[0] = NewScreen(width, height)
	e.scrs[1] = NewScreen(width, height)
	e.scrs[0].scrollback = e.scrollback
	e.scr = e.scrs[0]

	e.parser = ansi.NewParser()
	e.parser.SetParamsSize(parser.MaxParamsSize)
	e.parser.SetDataSize(64 * 1024)
	e.parser.SetHandler(ansi.Handler{
		Print:     e.handlePrint,
		Execute:   e.handleControl,
		HandleCsi: e.handleCsi,
		HandleEsc: e.handleEsc,
		HandleOsc: e.handleOsc,
	})

	return e
}

// SetCallbacks installs the observer hooks.
func (e *Emulator) SetCallbacks(cb Callbacks) {
	e.cb = cb
}

// Write feeds raw shell output into the parser. It never fails; the
// signature matches io.Writer so the emulator can sit behind one.
func (e *Emulator) Write(p []byte) (int, error) {
	for i := range p {
		e.parser.Advance(p[i])
	}
	return len(p), nil
}

// Width returns the grid width.
func (e *Emulator) Width() int { return e.scr.Width() }

// Height returns the grid height.
func (e *Emulator) Height() int { return e.scr.Height() }

// Screen returns the active screen buffer.
func (e *Emulator) Screen() *Screen { return e.scr }

// CellAt returns the active screen's cell at x, y, or nil when out of
// bounds.
func (e *Emulator) CellAt(x, y int) *Cell { return e.scr.CellAt(x, y) }

// CursorPosition returns the active screen's cursor position.
func (e *Emulator) CursorPosition() (x, y int) { return e.scr.CursorPosition() }

// CursorHidden reports whether the application hid the cursor
// (DECTCEM reset).
func (e *Emulator) CursorHidden() bool { return e.cursorHidden }

// Title returns the last title set via OSC 0/2, or "".
func (e *Emulator) Title() string { return e.title }

// Scrollback returns the primary screen's scrollback buffer.
func (e *Emulator) Scrollback() *Scrollback { return e.scrollback }

// IsAltScreen reports whether the alternate screen buffer is active.
func (e *Emulator) IsAltScreen() bool { return e.altScreen }

func (e *Emulator) handlePrint(r rune) {
	s := e.scr
	w := runeCellWidth(r)

	if s.cur.atPhantom {
		if e.autowrap {
			s.cur.X = 0
			s.linefeed()
		}
		s.cur.atPhantom = false
	}

	if s.cur.X+w > s.width {
		if !e.autowrap {
			s.cur.X = s.width - w
		} else {
			s.cur.X = 0
			s.linefeed()
		}
	}

	s.setCell(s.cur.X, s.cur.Y, Cell{Rune: r, Width: w, Style: e.style})

	if s.cur.X+w >= s.width {
		// Last column: stay put and mark the pending wrap.
		s.cur.X = s.width - 1
		s.cur.atPhantom = true
	} else {
		s.cur.X += w
	}
}

func (e *Emulator) handleControl(b byte) {
	s := e.scr
	switch b {
	case '\b':
		s.cur.atPhantom = false
		if s.cur.X > 0 {
			s.cur.X--
		}
	case '\t':
		s.cur.atPhantom = false
		next := (s.cur.X/8 + 1) * 8
		if next > s.width-1 {
			next = s.width - 1
		}
		s.cur.X = next
	case '\n', '\v', '\f':
		s.linefeed()
	case '\r':
		s.cur.atPhantom = false
		s.cur.X = 0
	}
}

// paramAt returns the i-th numeric parameter, or def when absent.
func paramAt(params ansi.Params, i, def int) int {
	if i < 0 || i >= len(params) {
		return def
	}
	return params[i].Param(def)
}

func (e *Emulator) handleCsi(cmd ansi.Cmd, params ansi.Params) {
	s := e.scr

	if cmd.Prefix() == '?' {
		e.handlePrivateMode(cmd, params)
		return
	}
	if cmd.Prefix() != 0 {
		// Queries (DA and friends) and other prefixed sequences are
		// not the model's business.
		return
	}

	switch cmd.Final() {
	case 'A': // CUU
		s.setCursor(s.cur.X, s.cur.Y-max(1, paramAt(params, 0, 1)))
	case 'B', 'e': // CUD, VPR
		s.setCursor(s.cur.X, s.cur.Y+max(1, paramAt(params, 0, 1)))
	case 'C', 'a': // CUF, HPR
		s.setCursor(s.cur.X+max(1, paramAt(params, 0, 1)), s.cur.Y)
	case 'D': // CUB
		s.setCursor(s.cur.X-max(1, paramAt(params, 0, 1)), s.cur.Y)
	case 'E': // CNL
		s.setCursor(0, s.cur.Y+max(1, paramAt(params, 0, 1)))
	case 'F': // CPL
		s.setCursor(0, s.cur.Y-max(1, paramAt(params, 0, 1)))
	case 'G', '`': // CHA, HPA
		s.setCursor(paramAt(params, 0, 1)-1, s.cur.Y)
	case 'H', 'f': // CUP, HVP
		s.setCursor(paramAt(params, 1, 1)-1, paramAt(params, 0, 1)-1)
	case 'd': // VPA
		s.setCursor(s.cur.X, paramAt(params, 0, 1)-1)
	case 'J': // ED
		s.eraseDisplay(paramAt(params, 0, 0))
	case 'K': // EL
		s.eraseLine(paramAt(params, 0, 0))
	case 'L': // IL
		s.insertLines(max(1, paramAt(params, 0, 1)))
	case 'M': // DL
		s.deleteLines(max(1, paramAt(params, 0, 1)))
	case '@': // ICH
		s.insertCells(max(1, paramAt(params, 0, 1)))
	case 'P': // DCH
		s.deleteCells(max(1, paramAt(params, 0, 1)))
	case 'X': // ECH
		s.eraseCells(max(1, paramAt(params, 0, 1)))
	case 'S': // SU
		s.scrollUp(max(1, paramAt(params, 0, 1)))
	case 'T': // SD
		s.scrollDown(max(1, paramAt(params, 0, 1)))
	case 'm': // SGR
		e.handleSgr(params)
	case 'r': // DECSTBM
		s.setScrollRegion(paramAt(params, 0, 1), paramAt(params, 1, s.height))
	case 's': // SCOSC
		s.saved = s.cur
		s.savedStyle = e.style
	case 'u': // SCORC
		s.cur = s.saved
		s.cur.atPhantom = false
		e.style = s.savedStyle
	}
}

func (e *Emulator) handlePrivateMode(cmd ansi.Cmd, params ansi.Params) {
	var set bool
	switch cmd.Final() {
	case 'h':
		set = true
	case 'l':
		set = false
	default:
		return
	}

	for i := range params {
		switch paramAt(params, i, 0) {
		case 7: // DECAWM
			e.autowrap = set
		case 25: // DECTCEM
			e.cursorHidden = !set
		case 47, 1047:
			e.switchScreen(set, false)
		case 1048:
			if set {
				e.scr.saved = e.scr.cur
				e.scr.savedStyle = e.style
			} else {
				e.scr.cur = e.scr.saved
				e.scr.cur.atPhantom = false
				e.style = e.scr.savedStyle
			}
		case 1049:
			e.switchScreen(set, true)
		}
	}
}

// switchScreen flips between primary and alternate buffers. With
// saveCursor (mode 1049) the primary cursor is saved on entry and
// restored on exit, and the alternate screen is cleared on entry.
func (e *Emulator) switchScreen(alt, saveCursor bool) {
	if alt == e.altScreen {
		return
	}
	if alt {
		if saveCursor {
			e.scrs[0].saved = e.scrs[0].cur
			e.scrs[0].savedStyle = e.style
		}
		e.scr = e.scrs[1]
		e.scr.reset()
	} else {
		e.scr = e.scrs[0]
		if saveCursor {
			e.scr.cur = e.scr.saved
			e.scr.cur.atPhantom = false
			e.style = e.scr.savedStyle
		}
	}
	e.altScreen = alt
}

func (e *Emulator) handleSgr(params ansi.Params) {
	if len(params) == 0 {
		e.style = Style{}
		return
	}

	for i := 0; i < len(params); i++ {
		switch p := paramAt(params, i, 0); p {
		case 0:
			e.style = Style{}
		case 1:
			e.style.Bold = true
		case 2:
			e.style.Faint = true
		case 3:
			e.style.Italic = true
		case 4:
			e.style.Underline = UnderlineSingle
			// Extended form 4:n selects the underline variant.
			if params[i].HasMore() && i+1 < len(params) {
				i++
				if n := paramAt(params, i, 1); n >= 0 && n <= int(UnderlineDashed) {
					e.style.Underline = UnderlineStyle(n)
				}
			}
		case 5, 6:
			e.style.Blink = true
		case 7:
			e.style.Inverse = true
		case 8:
			e.style.Invisible = true
		case 9:
			e.style.Strikethrough = true
		case 21:
			e.style.Underline = UnderlineDouble
		case 22:
			e.style.Bold = false
			e.style.Faint = false
		case 23:
			e.style.Italic = false
		case 24:
			e.style.Underline = UnderlineNone
		case 25:
			e.style.Blink = false
		case 27:
			e.style.Inverse = false
		case 28:
			e.style.Invisible = false
		case 29:
			e.style.Strikethrough = false
		case 30, 31, 32, 33, 34, 35, 36, 37:
			e.style.Fg = IndexedColor(uint8(p - 30))
		case 38:
			if c, skip := extendedColor(params, i); skip > 0 {
				e.style.Fg = c
				i += skip
			}
		case 39:
			e.style.Fg = Color{}
		case 40, 41, 42, 43, 44, 45, 46, 47:
			e.style.Bg = IndexedColor(uint8(p - 40))
		case 48:
			if c, skip := extendedColor(params, i); skip > 0 {
				e.style.Bg = c
				i += skip
			}
		case 49:
			e.style.Bg = Color{}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			e.style.Fg = IndexedColor(uint8(p - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			e.style.Bg = IndexedColor(uint8(p - 100 + 8))
		}
	}
}

// extendedColor parses the 38/48 ; 5 ; n and ; 2 ; r ; g ; b forms
// starting at the 38/48 parameter. It returns the parsed color and how
// many parameters beyond index i were consumed; skip 0 means the form
// was malformed and the caller should not advance.
func extendedColor(params ansi.Params, i int) (Color, int) {
	switch paramAt(params, i+1, -1) {
	case 5:
		n := paramAt(params, i+2, -1)
		if n < 0 || n > 255 {
			return Color{}, 0
		}
		return IndexedColor(uint8(n)), 2
	case 2:
		r := paramAt(params, i+2, -1)
		g := paramAt(params, i+3, -1)
		b := paramAt(params, i+4, -1)
		if r < 0 || g < 0 || b < 0 || r > 255 || g > 255 || b > 255 {
			return Color{}, 0
		}
		return RGBColor(uint8(r), uint8(g), uint8(b)), 4
	}
	return Color{}, 0
}

func (e *Emulator) handleEsc(cmd ansi.Cmd) {
	s := e.scr
	switch cmd.Final() {
	case '7': // DECSC
		s.saved = s.cur
		s.savedStyle = e.style
	case '8': // DECRC
		s.cur = s.saved
		s.cur.atPhantom = false
		e.style = s.savedStyle
	case 'D': // IND
		s.linefeed()
	case 'E': // NEL
		s.cur.X = 0
		s.linefeed()
	case 'M': // RI
		s.reverseLinefeed()
	case 'c': // RIS
		e.scrs[0].reset()
		e.scrs[1].reset()
		e.scr = e.scrs[0]
		e.altScreen = false
		e.style = Style{}
		e.autowrap = true
		e.cursorHidden = false
	}
}

func (e *Emulator) handleOsc(cmd int, data []byte) {
	switch cmd {
	case 0, 2:
		// data is "<cmd>;<title>".
		title := ""
		for i := range data {
			if data[i] == ';' {
				title = string(data[i+1:])
				break
			}
		}
		e.title = title
		if e.cb.Title != nil {
			e.cb.Title(title)
		}
	}
}
