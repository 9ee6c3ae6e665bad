package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/skyfall/internal/config"
	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/input"
	logs "github.com/tomz197/skyfall/internal/logging"
	"github.com/tomz197/skyfall/internal/loop"
	gameconfig "github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/sim"
)

// drainTimeout bounds how long shutdown waits for sessions to leave.
const drainTimeout = 15 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logs.New(settings.LogLevel, os.Stderr, "ssh")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config",
		"host", settings.SSHHost,
		"port", settings.SSHPort,
		"hostKeyPath", settings.SSHHostKeyPath,
		"workingDir", workingDir,
		"variant", settings.Variant,
	)

	games := newGameServer(settings, logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if settings.SSHHostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSHHostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "sessions", games.active.Load())

	// Notify players and wait for them to disconnect.
	if !games.drain(drainTimeout) {
		logger.Warn("sessions still active after drain timeout", "sessions", games.active.Load())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameServer runs one independent game per SSH session.
type gameServer struct {
	settings config.Settings
	logger   *log.Logger

	shutdown     chan struct{}
	shutdownOnce sync.Once
	sessions     sync.WaitGroup
	active       atomic.Int64
}

func newGameServer(settings config.Settings, logger *log.Logger) *gameServer {
	return &gameServer{
		settings: settings,
		logger:   logger,
		shutdown: make(chan struct{}),
	}
}

// drain shows every session the shutdown notice and waits up to timeout
// for them to end. It reports whether all sessions ended.
func (g *gameServer) drain(timeout time.Duration) bool {
	g.shutdownOnce.Do(func() { close(g.shutdown) })

	finished := make(chan struct{})
	go func() {
		g.sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return true
	case <-time.After(timeout):
		return false
	}
}

// middleware handles SSH sessions and runs the game.
func (g *gameServer) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.sessions.Add(1)
		g.active.Add(1)
		defer func() {
			g.active.Add(-1)
			g.sessions.Done()
		}()

		logger := g.logger.With("session", uuid.NewString(), "user", sess.User())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Track the terminal size from window change events
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		keys := input.NewKeys(gameconfig.KeyHoldDuration)
		stream := input.StartStream(bufio.NewReader(sess), keys)
		session := loop.NewSession(loop.SessionOptions{
			Presenter: draw.NewANSIPresenter(sess, sizeTracker.getSize),
			World:     sim.NewWorld(g.settings.WorldOptions()),
			Keys:      keys,
			Logger:    logger,
			InputDone: stream.Done(),
			Shutdown:  g.shutdown,
		})
		if err := session.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
