package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/render"
	"github.com/tomz197/skyfall/internal/sim"
)

// Presenter pushes finished canvases to a terminal.
type Presenter interface {
	Begin() error
	Size() (width, height int, err error)
	Clear() error
	Present(c *draw.Canvas) error
	End() error
}

// SessionOptions configure a Session.
type SessionOptions struct {
	Presenter Presenter
	World     *sim.World
	Keys      *input.Keys
	Logger    *log.Logger // Nil discards

	// Closed when the input source is gone (EOF, disconnect).
	InputDone <-chan struct{}
	// Closed when the host is shutting down; the session shows a notice
	// for config.ShutdownDisplayTime and then ends.
	Shutdown <-chan struct{}

	FPS int // Zero uses config.ClientTargetFPS
}

// Session runs one player's game on one terminal.
type Session struct {
	presenter Presenter
	canvas    *draw.Canvas
	renderer  render.Renderer
	queue     FrameQueue
	game      *Game
	keys      *input.Keys
	logger    *log.Logger

	inputDone <-chan struct{}
	shutdown  <-chan struct{}
	fps       int

	shuttingDown bool
	shutdownAt   time.Duration
	lastPhase    Phase
	sized        bool
}

// NewSession creates a session on the menu.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = config.ClientTargetFPS
	}

	s := &Session{
		presenter: opts.Presenter,
		canvas:    draw.NewScaledCanvas(0, 0, opts.World.View.Width, opts.World.View.Height),
		keys:      opts.Keys,
		logger:    logger,
		inputDone: opts.InputDone,
		shutdown:  opts.Shutdown,
		fps:       fps,
	}
	s.game = NewGame(GameOptions{
		World:     opts.World,
		Keys:      opts.Keys,
		Scheduler: &s.queue,
		Render:    s.drawWorld,
		Logger:    logger,
	})
	s.lastPhase = s.game.Phase()
	return s
}

// Game returns the session's game.
func (s *Session) Game() *Game {
	return s.game
}

// Canvas returns the session's canvas.
func (s *Session) Canvas() *draw.Canvas {
	return s.canvas
}

// Run blocks until the player quits, the input ends, the shutdown notice
// has been shown, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.presenter.Begin(); err != nil {
		return fmt.Errorf("prepare terminal: %w", err)
	}
	defer func() {
		if err := s.presenter.End(); err != nil {
			s.logger.Warn("restore terminal", "err", err)
		}
	}()

	s.logger.Info("session started", "variant", s.game.World.Variant)
	defer func() {
		s.logger.Info("session ended", "runs", s.game.Runs())
	}()

	var tickErr error
	err := RunTicker(ctx, s.fps, func(now time.Duration) bool {
		ok, err := s.Tick(now)
		if err != nil {
			tickErr = err
			return false
		}
		return ok
	})
	if tickErr != nil {
		return tickErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Tick runs one display frame: lifecycle input, simulation, drawing and
// presenting. It returns false when the session should end.
func (s *Session) Tick(now time.Duration) (bool, error) {
	select {
	case <-s.inputDone:
		return false, nil
	default:
	}

	if !s.shuttingDown && isClosed(s.shutdown) {
		s.shuttingDown = true
		s.shutdownAt = now
		s.game.Driver().Stop()
		s.logger.Info("shutdown notice shown")
	}
	if s.shuttingDown && now-s.shutdownAt >= config.ShutdownDisplayTime {
		return false, nil
	}

	if err := s.updateScreen(); err != nil {
		return false, err
	}

	if !s.shuttingDown {
		if !s.game.HandleInput(s.keys.Snapshot()) {
			return false, nil
		}
	}

	// Phase changes leave stale cells around the overlays; repaint fully.
	if phase := s.game.Phase(); phase != s.lastPhase {
		s.canvas.ForceRedraw()
		s.lastPhase = phase
	}

	switch {
	case s.shuttingDown:
		drawShutdownScreen(s.canvas, s.game.World, config.ShutdownDisplayTime-(now-s.shutdownAt))
	case s.game.Phase() == PhaseRunning:
		s.queue.Dispatch(now)
	case s.game.Phase() == PhaseMenu:
		drawMenuScreen(s.canvas, s.game.World)
	case s.game.Phase() == PhaseGameOver:
		s.drawWorld(s.game.World)
		drawGameOverPrompt(s.canvas, s.game.World)
	}

	if err := s.presenter.Present(s.canvas); err != nil {
		return false, fmt.Errorf("present frame: %w", err)
	}
	return true, nil
}

// drawWorld is the driver's render callback.
func (s *Session) drawWorld(w *sim.World) {
	s.renderer.Draw(w, s.canvas)
}

// updateScreen fits the canvas to the terminal. On actual size changes the
// terminal is cleared to remove residual cells outside the new area.
func (s *Session) updateScreen() error {
	termWidth, termHeight, err := s.presenter.Size()
	if err != nil {
		if s.sized {
			return nil // keep the last known size
		}
		return fmt.Errorf("terminal size: %w", err)
	}

	aspect := s.game.World.View.Width / s.game.World.View.Height
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(
		termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight, aspect)

	if !s.sized || renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		if s.sized {
			s.logger.Debug("terminal resized", "width", termWidth, "height", termHeight)
		}
		if err := s.presenter.Clear(); err != nil {
			return fmt.Errorf("clear terminal: %w", err)
		}
		s.canvas.Resize(renderWidth, renderHeight)
		s.canvas.SetOffset(offsetCol, offsetRow)
		s.canvas.ForceRedraw()
		s.sized = true
	}
	return nil
}

func isClosed(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
