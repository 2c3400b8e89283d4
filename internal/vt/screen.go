package vt

// Cursor is a grid position plus the pending-wrap flag. atPhantom is
// set when a character lands in the last column: the cursor logically
// stays on it until the next printable forces the wrap.
type Cursor struct {
	X, Y      int
	atPhantom bool
}

// Screen is one framebuffer of the emulator: a fixed-size grid of
// cells, a cursor, a saved cursor, and a scroll region. The primary
// screen additionally feeds lines scrolled off the top into the
// emulator's scrollback.
type Screen struct {
	width, height int
	lines         []Line
	cur           Cursor
	saved         Cursor
	savedStyle    Style

	// Scroll region, 0-indexed inclusive top, exclusive bottom.
	scrollTop    int
	scrollBottom int

	// scrollback receives lines pushed off the top, nil for the
	// alternate screen.
	scrollback *Scrollback
}

// NewScreen creates a screen of the given dimensions. Dimensions are
// clamped to at least 1x1.
func NewScreen(width, height int) *Screen {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &Screen{width: width, height: height}
	s.lines = make([]Line, height)
	for i := range s.lines {
		s.lines[i] = newBlankLine(width)
	}
	s.scrollBottom = height
	return s
}

func newBlankLine(width int) Line {
	l := make(Line, width)
	for i := range l {
		l[i] = blankCell
	}
	return l
}

// Width returns the screen width in cells.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in cells.
func (s *Screen) Height() int { return s.height }

// CellAt returns the cell at the given position, or nil when out of
// bounds.
func (s *Screen) CellAt(x, y int) *Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return nil
	}
	return &s.lines[y][x]
}

// Row returns the line at y, or nil when out of bounds.
func (s *Screen) Row(y int) Line {
	if y < 0 || y >= s.height {
		return nil
	}
	return s.lines[y]
}

// CursorPosition returns the cursor's grid position.
func (s *Screen) CursorPosition() (x, y int) {
	return s.cur.X, s.cur.Y
}

func (s *Screen) setCursor(x, y int) {
	s.cur.atPhantom = false
	s.cur.X = clamp(x, 0, s.width-1)
	s.cur.Y = clamp(y, 0, s.height-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// setCell places a cell, handling wide runes by writing a zero-width
// continuation into the following column.
func (s *Screen) setCell(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.lines[y][x] = c
	if c.Width == 2 && x+1 < s.width {
		s.lines[y][x+1] = Cell{Rune: 0, Width: 0, Style: c.Style}
	}
}

// scrollUp shifts the scroll region up by n lines. Lines leaving the
// top of a full-height region on the primary screen go to scrollback.
func (s *Screen) scrollUp(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top {
		n = bottom - top
	}
	for i := 0; i < n; i++ {
		if s.scrollback != nil && top == 0 && bottom == s.height {
			s.scrollback.PushLine(s.lines[top])
		}
		copy(s.lines[top:bottom-1], s.lines[top+1:bottom])
		s.lines[bottom-1] = newBlankLine(s.width)
	}
}

// scrollDown shifts the scroll region down by n lines, dropping lines
// off the bottom.
func (s *Screen) scrollDown(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top {
		n = bottom - top
	}
	for i := 0; i < n; i++ {
		for y := bottom - 1; y > top; y-- {
			s.lines[y] = s.lines[y-1]
		}
		s.lines[top] = newBlankLine(s.width)
	}
}

// linefeed moves the cursor down one line, scrolling when it sits on
// the bottom of the scroll region.
func (s *Screen) linefeed() {
	s.cur.atPhantom = false
	if s.cur.Y == s.scrollBottom-1 {
		s.scrollUp(1)
		return
	}
	if s.cur.Y < s.height-1 {
		s.cur.Y++
	}
}

// reverseLinefeed moves the cursor up one line, scrolling down when it
// sits on the top of the scroll region.
func (s *Screen) reverseLinefeed() {
	s.cur.atPhantom = false
	if s.cur.Y == s.scrollTop {
		s.scrollDown(1)
		return
	}
	if s.cur.Y > 0 {
		s.cur.Y--
	}
}

// eraseLine clears part of the cursor's line. mode: 0 cursor to end,
// 1 start to cursor, 2 whole line.
func (s *Screen) eraseLine(mode int) {
	y := s.cur.Y
	switch mode {
	case 0:
		for x := s.cur.X; x < s.width; x++ {
			s.lines[y][x] = blankCell
		}
	case 1:
		for x := 0; x <= s.cur.X && x < s.width; x++ {
			s.lines[y][x] = blankCell
		}
	case 2:
		s.lines[y] = newBlankLine(s.width)
	}
}

// eraseDisplay clears part of the screen. mode: 0 cursor to end,
// 1 start to cursor, 2 whole screen.
func (s *Screen) eraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLine(0)
		for y := s.cur.Y + 1; y < s.height; y++ {
			s.lines[y] = newBlankLine(s.width)
		}
	case 1:
		for y := 0; y < s.cur.Y; y++ {
			s.lines[y] = newBlankLine(s.width)
		}
		s.eraseLine(1)
	case 2:
		for y := 0; y < s.height; y++ {
			s.lines[y] = newBlankLine(s.width)
		}
	}
}

// insertLines inserts n blank lines at the cursor, pushing lines below
// it down within the scroll region.
func (s *Screen) insertLines(n int) {
	if s.cur.Y < s.scrollTop || s.cur.Y >= s.scrollBottom {
		return
	}
	if n > s.scrollBottom-s.cur.Y {
		n = s.scrollBottom - s.cur.Y
	}
	for i := 0; i < n; i++ {
		for y := s.scrollBottom - 1; y > s.cur.Y; y-- {
			s.lines[y] = s.lines[y-1]
		}
		s.lines[s.cur.Y] = newBlankLine(s.width)
	}
}

// deleteLines removes n lines at the cursor, pulling lines below it up
// within the scroll region.
func (s *Screen) deleteLines(n int) {
	if s.cur.Y < s.scrollTop || s.cur.Y >= s.scrollBottom {
		return
	}
	if n > s.scrollBottom-s.cur.Y {
		n = s.scrollBottom - s.cur.Y
	}
	for i := 0; i < n; i++ {
		copy(s.lines[s.cur.Y:s.scrollBottom-1], s.lines[s.cur.Y+1:s.scrollBottom])
		s.lines[s.scrollBottom-1] = newBlankLine(s.width)
	}
}

// insertCells inserts n blank cells at the cursor, shifting the rest of
// the line right.
func (s *Screen) insertCells(n int) {
	y := s.cur.Y
	if n > s.width-s.cur.X {
		n = s.width - s.cur.X
	}
	for x := s.width - 1; x >= s.cur.X+n; x-- {
		s.lines[y][x] = s.lines[y][x-n]
	}
	for x := s.cur.X; x < s.cur.X+n; x++ {
		s.lines[y][x] = blankCell
	}
}

// deleteCells removes n cells at the cursor, shifting the rest of the
// line left.
func (s *Screen) deleteCells(n int) {
	y := s.cur.Y
	if n > s.width-s.cur.X {
		n = s.width - s.cur.X
	}
	copy(s.lines[y][s.cur.X:], s.lines[y][s.cur.X+n:])
	for x := s.width - n; x < s.width; x++ {
		s.lines[y][x] = blankCell
	}
}

// eraseCells blanks n cells starting at the cursor without shifting.
func (s *Screen) eraseCells(n int) {
	for x := s.cur.X; x < s.cur.X+n && x < s.width; x++ {
		s.lines[s.cur.Y][x] = blankCell
	}
}

// setScrollRegion sets the scroll region from 1-indexed inclusive
// bounds, restoring the full screen on out-of-range values.
func (s *Screen) setScrollRegion(top, bottom int) {
	if top < 1 {
		top = 1
	}
	if bottom < 1 || bottom > s.height {
		bottom = s.height
	}
	if top >= bottom {
		return
	}
	s.scrollTop = top - 1
	s.scrollBottom = bottom
	s.setCursor(0, 0)
}

// reset restores the screen to its initial state, keeping dimensions.
func (s *Screen) reset() {
	for y := range s.lines {
		s.lines[y] = newBlankLine(s.width)
	}
	s.cur = Cursor{}
	s.saved = Cursor{}
	s.savedStyle = Style{}
	s.scrollTop = 0
	s.scrollBottom = s.height
}
