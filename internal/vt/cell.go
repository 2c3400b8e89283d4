// Package vt provides the virtual terminal screen model. It wraps the
// x/ansi escape-sequence parser and maintains a grid of styled cells,
// a cursor, and a scrollback buffer per shell.
package vt

import (
	"github.com/mattn/go-runewidth"
)

// Color represents a cell color. The zero value is the terminal's
// default (unset) color.
type Color struct {
	// R, G, B are the true-color components. In indexed mode R holds
	// the palette index (0-255) and G, B are ignored.
	R, G, B uint8
	// Indexed marks R as a palette index.
	Indexed bool
	// Set distinguishes an explicit color from the default.
	Set bool
}

// IndexedColor returns a palette color (0-255).
func IndexedColor(index uint8) Color {
	return Color{R: index, Indexed: true, Set: true}
}

// RGBColor returns a 24-bit true color.
func RGBColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// IsDefault reports whether this is the terminal's default color.
func (c Color) IsDefault() bool {
	return !c.Set
}

// Equals reports whether two colors are identical.
func (c Color) Equals(other Color) bool {
	if c.Set != other.Set {
		return false
	}
	if !c.Set {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// UnderlineStyle is the underline variant of a cell, following the
// extended SGR 4:n sub-parameter form.
type UnderlineStyle uint8

// Underline variants.
const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Style is the visual style of a cell.
type Style struct {
	Fg, Bg        Color
	Underline     UnderlineStyle
	Bold          bool
	Faint         bool
	Italic        bool
	Blink         bool
	Inverse       bool
	Invisible     bool
	Strikethrough bool
}

// IsZero reports whether the style carries no attributes and default
// colors, i.e. rendering it requires no SGR sequence at all.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Equals reports whether two styles are identical. Style is a
// comparable value type so identity is plain equality; row rendering
// uses this to compress runs of equally styled cells.
func (s Style) Equals(other Style) bool {
	return s == other
}

// Cell is a single grid position: a codepoint plus its style.
// A zero Rune renders as a blank.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// blankCell is what erase operations fill with.
var blankCell = Cell{Rune: 0, Width: 1}

// IsBlank reports whether the cell renders as a space with no styling.
func (c Cell) IsBlank() bool {
	return (c.Rune == 0 || c.Rune == ' ') && c.Style.IsZero()
}

// runeCellWidth returns the display width of a rune, clamped to 1 for
// control and zero-width codepoints so the grid never loses columns.
func runeCellWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// Line is a row of cells.
type Line []Cell
