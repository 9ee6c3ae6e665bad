package draw

import "github.com/gdamore/tcell/v2"

var tcellColors = [...]tcell.Color{
	ColorNone:   tcell.ColorDefault,
	ColorWhite:  tcell.ColorWhite,
	ColorGreen:  tcell.ColorLime,
	ColorRed:    tcell.ColorRed,
	ColorYellow: tcell.ColorYellow,
}

// TcellPresenter pushes canvases to a tcell screen.
type TcellPresenter struct {
	screen tcell.Screen
}

// NewTcellPresenter wraps an initialized screen.
func NewTcellPresenter(screen tcell.Screen) *TcellPresenter {
	return &TcellPresenter{screen: screen}
}

// Begin hides the cursor and clears the screen.
func (p *TcellPresenter) Begin() error {
	p.screen.HideCursor()
	p.screen.Clear()
	return nil
}

// Size returns the screen dimensions.
func (p *TcellPresenter) Size() (int, int, error) {
	w, h := p.screen.Size()
	return w, h, nil
}

// Clear wipes the screen and forces a full repaint on the next Show.
func (p *TcellPresenter) Clear() error {
	p.screen.Clear()
	p.screen.Sync()
	return nil
}

// Present copies the composed cells of c onto the screen. tcell diffs
// against the physical terminal itself.
func (p *TcellPresenter) Present(c *Canvas) error {
	cells := c.Compose()
	width := c.TerminalWidth()
	for i, cell := range cells {
		style := tcell.StyleDefault.
			Foreground(tcellColors[cell.Fg]).
			Background(tcellColors[cell.Bg])
		p.screen.SetContent(c.OffsetCol()+i%width, c.OffsetRow()+i/width, cell.Rune, nil, style)
	}
	p.screen.Show()
	return nil
}

// End releases the screen.
func (p *TcellPresenter) End() error {
	p.screen.Fini()
	return nil
}
