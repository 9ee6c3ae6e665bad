package input

import (
	"github.com/gdamore/tcell/v2"
)

// PumpTcell forwards key events from screen to keys until the screen is
// finalized. onResize, if set, runs for every resize event.
func PumpTcell(screen tcell.Screen, keys *Keys, onResize func()) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if a, ok := TcellKeyAction(ev); ok {
				keys.Press(a)
			}
		case *tcell.EventResize:
			if onResize != nil {
				onResize()
			}
		}
	}
}

// TcellKeyAction maps a tcell key event to an action.
func TcellKeyAction(ev *tcell.EventKey) (Action, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return MoveLeft, true
	case tcell.KeyRight:
		return MoveRight, true
	case tcell.KeyUp:
		return Fire, true
	case tcell.KeyEnter:
		return Start, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Quit, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r < 0x80 {
			return ByteAction(byte(r))
		}
	}
	return 0, false
}
