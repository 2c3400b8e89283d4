package terminal

import "io"

// WindowManager owns the single main window and an ordered list of
// floating windows. Composition order is fixed: main first, then the
// floating windows in creation order, so later windows paint over
// earlier ones. Nothing reorders the list.
type WindowManager struct {
	Main     *Window
	Floating []*Window
}

// NewWindowManager creates a manager around the given main window.
func NewWindowManager(main *Window) *WindowManager {
	return &WindowManager{Main: main}
}

// CreateFloatingWindow spawns a bordered shell window and appends it
// to the composition order.
func (m *WindowManager) CreateFloatingWindow(x, y, width, height int, title string) (*Window, error) {
	w, err := NewFloatingWindow(x, y, width, height, title)
	if err != nil {
		return nil, err
	}
	m.Floating = append(m.Floating, w)
	return w, nil
}

// Render paints the main window and then every floating window, in
// z-order.
func (m *WindowManager) Render(out io.Writer) {
	m.Main.Render(out)
	for _, w := range m.Floating {
		w.Render(out)
	}
}

// RenderMainOnly paints just the main window.
func (m *WindowManager) RenderMainOnly(out io.Writer) {
	m.Main.Render(out)
}

// Close releases every window's resources.
func (m *WindowManager) Close() {
	for _, w := range m.Floating {
		w.Close()
	}
	m.Main.Close()
}
