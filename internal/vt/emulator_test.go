package vt

import (
	"fmt"
	"strings"
	"testing"
)

// gridText flattens the active screen to plain text, one line per row,
// blanks as spaces, trailing spaces trimmed.
func gridText(e *Emulator) string {
	var rows []string
	for y := 0; y < e.Height(); y++ {
		var b strings.Builder
		for x := 0; x < e.Width(); x++ {
			c := e.CellAt(x, y)
			if c == nil || c.Width == 0 {
				continue
			}
			if c.Rune == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(c.Rune)
			}
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(rows, "\n")
}

func TestPlainOutput(t *testing.T) {
	e := NewEmulator(20, 5)
	_, _ = e.Write([]byte("hello\r\n"))

	if got := gridText(e); !strings.HasPrefix(got, "hello") {
		t.Errorf("row 0 = %q, want %q", strings.SplitN(got, "\n", 2)[0], "hello")
	}
	x, y := e.CursorPosition()
	if x != 0 || y != 1 {
		t.Errorf("cursor = (%d, %d), want (0, 1)", x, y)
	}
}

func TestCursorMovement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wantX int
		wantY int
	}{
		{"cup", "\x1b[3;5H", 4, 2},
		{"cup no params", "abc\x1b[H", 0, 0},
		{"hvp", "\x1b[2;2f", 1, 1},
		{"cuu", "\x1b[5;5H\x1b[2A", 4, 2},
		{"cud", "\x1b[2B", 0, 2},
		{"cuf", "\x1b[3C", 3, 0},
		{"cub", "abcd\x1b[2D", 2, 0},
		{"cha", "abcd\x1b[2G", 1, 0},
		{"vpa", "\x1b[4d", 0, 3},
		{"cr", "abc\r", 0, 0},
		{"clamped", "\x1b[99;99H", 19, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmulator(20, 5)
			_, _ = e.Write([]byte(tt.input))
			x, y := e.CursorPosition()
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("cursor = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestSgrStyles(t *testing.T) {
	e := NewEmulator(10, 2)
	_, _ = e.Write([]byte("\x1b[1;31mx\x1b[0my"))

	cx := e.CellAt(0, 0)
	if cx == nil || cx.Rune != 'x' {
		t.Fatalf("cell 0,0 = %+v, want 'x'", cx)
	}
	want := Style{Bold: true, Fg: IndexedColor(1)}
	if cx.Style != want {
		t.Errorf("style = %+v, want %+v", cx.Style, want)
	}

	cy := e.CellAt(1, 0)
	if cy == nil || cy.Rune != 'y' {
		t.Fatalf("cell 1,0 = %+v, want 'y'", cy)
	}
	if !cy.Style.IsZero() {
		t.Errorf("style after reset = %+v, want zero", cy.Style)
	}
}

func TestSgrExtendedColors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Style
	}{
		{"palette 256 fg", "\x1b[38;5;196mx", Style{Fg: IndexedColor(196)}},
		{"palette 256 bg", "\x1b[48;5;21mx", Style{Bg: IndexedColor(21)}},
		{"rgb fg", "\x1b[38;2;12;34;56mx", Style{Fg: RGBColor(12, 34, 56)}},
		{"rgb bg", "\x1b[48;2;255;0;128mx", Style{Bg: RGBColor(255, 0, 128)}},
		{"bright fg", "\x1b[93mx", Style{Fg: IndexedColor(11)}},
		{"bright bg", "\x1b[104mx", Style{Bg: IndexedColor(12)}},
		{"underline", "\x1b[4mx", Style{Underline: UnderlineSingle}},
		{"double underline", "\x1b[21mx", Style{Underline: UnderlineDouble}},
		{"inverse strike", "\x1b[7;9mx", Style{Inverse: true, Strikethrough: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmulator(10, 2)
			_, _ = e.Write([]byte(tt.input))
			c := e.CellAt(0, 0)
			if c == nil {
				t.Fatal("cell 0,0 missing")
			}
			if c.Style != tt.want {
				t.Errorf("style = %+v, want %+v", c.Style, tt.want)
			}
		})
	}
}

func TestEraseOperations(t *testing.T) {
	e := NewEmulator(10, 3)
	_, _ = e.Write([]byte("aaaaaaaaaa\r\nbbbbbbbbbb\r\ncccccccccc"))
	// Park mid-line on row 1 and erase to end of line.
	_, _ = e.Write([]byte("\x1b[2;5H\x1b[K"))

	got := gridText(e)
	want := "aaaaaaaaaa\nbbbb\ncccccccccc"
	if got != want {
		t.Errorf("after EL:\n%q\nwant:\n%q", got, want)
	}

	_, _ = e.Write([]byte("\x1b[2J"))
	if got := gridText(e); strings.TrimSpace(got) != "" {
		t.Errorf("after ED 2 screen = %q, want blank", got)
	}
}

func TestScrollOnLinefeed(t *testing.T) {
	e := NewEmulator(10, 3)
	_, _ = e.Write([]byte("one\r\ntwo\r\nthree\r\nfour"))

	got := gridText(e)
	want := "two\nthree\nfour"
	if got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}

	if e.Scrollback().Len() != 1 {
		t.Fatalf("scrollback len = %d, want 1", e.Scrollback().Len())
	}
	line := e.Scrollback().Line(0)
	if line[0].Rune != 'o' || line[1].Rune != 'n' || line[2].Rune != 'e' {
		t.Errorf("scrollback line 0 = %v, want 'one'", line[:3])
	}
}

func TestAutowrap(t *testing.T) {
	e := NewEmulator(5, 3)
	_, _ = e.Write([]byte("abcdefg"))

	got := gridText(e)
	want := "abcde\nfg"
	if got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
	x, y := e.CursorPosition()
	if x != 2 || y != 1 {
		t.Errorf("cursor = (%d, %d), want (2, 1)", x, y)
	}
}

func TestAltScreen(t *testing.T) {
	e := NewEmulator(10, 3)
	_, _ = e.Write([]byte("primary\x1b[?1049halt"))

	if !e.IsAltScreen() {
		t.Fatal("expected alternate screen active")
	}
	if got := gridText(e); !strings.HasPrefix(got, "alt") {
		t.Errorf("alt screen = %q, want to start with 'alt'", got)
	}

	_, _ = e.Write([]byte("\x1b[?1049l"))
	if e.IsAltScreen() {
		t.Fatal("expected primary screen active")
	}
	if got := gridText(e); !strings.HasPrefix(got, "primary") {
		t.Errorf("primary screen = %q, want to start with 'primary'", got)
	}
}

func TestOscTitleCallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		fires bool
	}{
		{"osc 0 bel", "\x1b]0;hi\a", "hi", true},
		{"osc 2 st", "\x1b]2;world\x1b\\", "world", true},
		{"osc 1 ignored", "\x1b]1;icon\a", "", false},
		{"unterminated ignored", "\x1b]0;oops", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmulator(10, 2)
			var got string
			fired := false
			e.SetCallbacks(Callbacks{Title: func(title string) {
				got = title
				fired = true
			}})
			_, _ = e.Write([]byte(tt.input))
			if fired != tt.fires {
				t.Fatalf("callback fired = %v, want %v", fired, tt.fires)
			}
			if fired && got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	e := NewEmulator(10, 3)
	_, _ = e.Write([]byte("\x1b[2;3H\x1b7\x1b[H\x1b8"))
	x, y := e.CursorPosition()
	if x != 2 || y != 1 {
		t.Errorf("cursor = (%d, %d), want (2, 1)", x, y)
	}
}

func TestCursorHidden(t *testing.T) {
	e := NewEmulator(10, 2)
	_, _ = e.Write([]byte("\x1b[?25l"))
	if !e.CursorHidden() {
		t.Error("cursor should be hidden after DECTCEM reset")
	}
	_, _ = e.Write([]byte("\x1b[?25h"))
	if e.CursorHidden() {
		t.Error("cursor should be visible after DECTCEM set")
	}
}

// TestSplitFeedConservation verifies that feeding a stream in two
// chunks produces the same model as feeding it whole, for every split
// point, including splits inside escape sequences and UTF-8 runes.
func TestSplitFeedConservation(t *testing.T) {
	streams := []string{
		"hello\r\nworld",
		"\x1b[1;31mred\x1b[0m plain \x1b[38;5;200mpink",
		"héllo → 日本語\r\n",
		"\x1b]0;a title\atext\x1b[2;2Hmore\x1b[K",
		"\x1b[?1049halt screen\x1b[?1049lback",
	}

	for si, stream := range streams {
		t.Run(fmt.Sprintf("stream_%d", si), func(t *testing.T) {
			whole := NewEmulator(20, 5)
			_, _ = whole.Write([]byte(stream))
			wantText := gridText(whole)
			wx, wy := whole.CursorPosition()

			for k := 0; k <= len(stream); k++ {
				split := NewEmulator(20, 5)
				_, _ = split.Write([]byte(stream[:k]))
				_, _ = split.Write([]byte(stream[k:]))

				if got := gridText(split); got != wantText {
					t.Fatalf("split at %d: grid %q, want %q", k, got, wantText)
				}
				x, y := split.CursorPosition()
				if x != wx || y != wy {
					t.Fatalf("split at %d: cursor (%d,%d), want (%d,%d)", k, x, y, wx, wy)
				}
				for row := 0; row < whole.Height(); row++ {
					for col := 0; col < whole.Width(); col++ {
						a := whole.CellAt(col, row)
						b := split.CellAt(col, row)
						if a.Style != b.Style {
							t.Fatalf("split at %d: style mismatch at %d,%d", k, col, row)
						}
					}
				}
			}
		})
	}
}

func TestWideRunes(t *testing.T) {
	e := NewEmulator(10, 2)
	_, _ = e.Write([]byte("日本"))

	c := e.CellAt(0, 0)
	if c == nil || c.Rune != '日' || c.Width != 2 {
		t.Fatalf("cell 0,0 = %+v, want wide '日'", c)
	}
	cont := e.CellAt(1, 0)
	if cont == nil || cont.Width != 0 {
		t.Fatalf("cell 1,0 = %+v, want continuation", cont)
	}
	x, _ := e.CursorPosition()
	if x != 4 {
		t.Errorf("cursor x = %d, want 4", x)
	}
}
