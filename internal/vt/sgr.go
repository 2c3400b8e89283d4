package vt

import (
	"strconv"
	"strings"
)

// SGR returns the escape sequences that activate every enabled
// attribute and color of s, one CSI m sequence per attribute. It
// returns "" for the zero style.
func (s Style) SGR() string {
	if s.IsZero() {
		return ""
	}

	var b strings.Builder
	if s.Bold {
		b.WriteString("\x1b[1m")
	}
	if s.Faint {
		b.WriteString("\x1b[2m")
	}
	if s.Italic {
		b.WriteString("\x1b[3m")
	}
	if s.Underline != UnderlineNone {
		b.WriteString("\x1b[4:")
		b.WriteString(strconv.Itoa(int(s.Underline)))
		b.WriteByte('m')
	}
	if s.Blink {
		b.WriteString("\x1b[5m")
	}
	if s.Inverse {
		b.WriteString("\x1b[7m")
	}
	if s.Invisible {
		b.WriteString("\x1b[8m")
	}
	if s.Strikethrough {
		b.WriteString("\x1b[9m")
	}
	if s.Fg.Set {
		b.WriteString("\x1b[")
		b.WriteString(colorParams(s.Fg, false))
		b.WriteByte('m')
	}
	if s.Bg.Set {
		b.WriteString("\x1b[")
		b.WriteString(colorParams(s.Bg, true))
		b.WriteByte('m')
	}
	return b.String()
}

// colorParams returns the SGR parameters for a single color: 3x/4x for
// palette 0-7, 9x/10x for 8-15, 38;5;n / 48;5;n for the extended
// palette, and 38;2;r;g;b / 48;2;r;g;b for true color.
func colorParams(c Color, background bool) string {
	switch {
	case c.Indexed && c.R < 8:
		base := 30
		if background {
			base = 40
		}
		return strconv.Itoa(base + int(c.R))
	case c.Indexed && c.R < 16:
		base := 90
		if background {
			base = 100
		}
		return strconv.Itoa(base + int(c.R) - 8)
	case c.Indexed:
		if background {
			return "48;5;" + strconv.Itoa(int(c.R))
		}
		return "38;5;" + strconv.Itoa(int(c.R))
	default:
		prefix := "38;2;"
		if background {
			prefix = "48;2;"
		}
		return prefix + strconv.Itoa(int(c.R)) + ";" +
			strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
	}
}
