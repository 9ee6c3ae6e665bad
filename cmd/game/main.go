package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/skyfall/internal/config"
	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/logging"
	"github.com/tomz197/skyfall/internal/loop"
	gameconfig "github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/sim"
)

func main() {
	os.Exit(mainCode(run))
}

// playFunc plays one game until it ends or ctx is cancelled.
type playFunc func(ctx context.Context, settings config.Settings, logger *log.Logger) error

// mainCode sets up logging, calls play and returns the process exit code,
// so deferred cleanup such as closing the log file runs before exit.
func mainCode(play playFunc) int {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(settings.LogLevel, logOut, "game")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := play(ctx, settings, logger); err != nil {
		logger.Error("game failed", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, settings config.Settings, logger *log.Logger) error {
	keys := input.NewKeys(gameconfig.KeyHoldDuration)
	world := sim.NewWorld(settings.WorldOptions())
	logger.Info("starting", "variant", world.Variant, "renderer", settings.Renderer, "seed", settings.Seed)

	if settings.Renderer == config.RendererTcell {
		return runTcell(ctx, world, keys, logger)
	}
	return runANSI(ctx, world, keys, logger)
}

// runANSI plays on the controlling terminal in raw mode.
func runANSI(ctx context.Context, world *sim.World, keys *input.Keys, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	stream := input.StartStream(bufio.NewReader(os.Stdin), keys)
	session := loop.NewSession(loop.SessionOptions{
		Presenter: draw.NewANSIPresenter(os.Stdout, draw.DefaultTermSizeFunc),
		World:     world,
		Keys:      keys,
		Logger:    logger,
		InputDone: stream.Done(),
	})
	return session.Run(ctx)
}

// runTcell plays on a tcell screen.
func runTcell(ctx context.Context, world *sim.World, keys *input.Keys, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		input.PumpTcell(screen, keys, func() {
			logger.Debug("resize event")
		})
	}()

	session := loop.NewSession(loop.SessionOptions{
		Presenter: draw.NewTcellPresenter(screen),
		World:     world,
		Keys:      keys,
		Logger:    logger,
		InputDone: done,
	})
	return session.Run(ctx)
}
