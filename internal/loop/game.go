package loop

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/render"
	"github.com/tomz197/skyfall/internal/sim"
)

// Phase is the lifecycle phase of a game.
type Phase int

const (
	PhaseMenu     Phase = iota // Title screen
	PhaseRunning               // Active gameplay
	PhaseGameOver              // Run ended, show restart prompt
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Game ties a world, its driver and the held keys into the
// menu -> running -> game over lifecycle.
type Game struct {
	World  *sim.World
	keys   *input.Keys
	driver *Driver
	logger *log.Logger

	phase     Phase
	menuReady bool
	runs      int
}

// GameOptions configure a Game.
type GameOptions struct {
	World     *sim.World
	Keys      *input.Keys
	Scheduler Scheduler
	Render    func(w *sim.World) // Called after every step
	Logger    *log.Logger        // Nil discards
}

// NewGame creates a game sitting on the menu.
func NewGame(opts GameOptions) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g := &Game{
		World:  opts.World,
		keys:   opts.Keys,
		logger: logger,
	}
	g.driver = NewDriver(opts.Scheduler, opts.World, opts.Keys, opts.Render)
	g.driver.OnStop = g.onStop
	g.InitMenu()
	return g
}

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Runs returns how many runs were started.
func (g *Game) Runs() int {
	return g.runs
}

// Driver exposes the frame driver.
func (g *Game) Driver() *Driver {
	return g.driver
}

// InitMenu shows the menu. Calling it again while on the menu does nothing.
func (g *Game) InitMenu() {
	if g.menuReady && g.phase == PhaseMenu {
		return
	}
	g.driver.Stop()
	g.phase = PhaseMenu
	g.menuReady = true
	g.logger.Debug("menu", "variant", g.World.Variant)
}

// InitGame resets the world and starts a new run. It can be called again
// at any time to restart.
func (g *Game) InitGame() {
	g.driver.Stop()
	g.World.Reset()
	g.keys.Reset()
	g.phase = PhaseRunning
	g.runs++
	g.logger.Info("run started", "run", g.runs, "variant", g.World.Variant)
	g.driver.Start()
}

// HandleInput applies the lifecycle keys. It returns false when the player
// asked to quit.
func (g *Game) HandleInput(held input.Held) bool {
	if held.Has(input.Quit) {
		return false
	}
	if g.phase != PhaseRunning && held.Has(input.Start) {
		g.InitGame()
	}
	return true
}

func (g *Game) onStop(w *sim.World) {
	g.phase = PhaseGameOver
	g.logger.Info("game over",
		"run", g.runs,
		"score", w.Score,
		"elapsed", render.FormatElapsed(w.Elapsed),
		"kills", w.Kills,
		"escaped", w.Escaped,
		"fired", w.Fired,
		"frames", w.Frames,
	)
}
