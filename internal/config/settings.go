package config

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/tomz197/skyfall/internal/sim"
)

// Renderers accepted by GAME_RENDERER.
const (
	RendererANSI  = "ansi"
	RendererTcell = "tcell"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Variant           sim.Variant // GAME_VARIANT: classic|a, rotating|b
	Renderer          string      // GAME_RENDERER: ansi|tcell (local game only)
	Seed              int64       // GAME_SEED: 0 seeds from the clock
	LockBulletHeading bool        // GAME_LOCK_BULLET_HEADING
	LogLevel          string      // LOG_LEVEL
	LogFile           string      // GAME_LOG_FILE (local game only)

	SSHHost        string // SSH_HOST
	SSHPort        string // SSH_PORT
	SSHHostKeyPath string // SSH_HOST_KEY

	WebHost        string // WEB_HOST
	WebPort        string // WEB_PORT
	SSHDisplayHost string // SSH_DISPLAY_HOST, shown on the landing page
}

// Load reads an optional .env file and then the environment.
func Load() (Settings, error) {
	if err := LoadDotEnv(); err != nil {
		return Settings{}, err
	}
	return FromEnv()
}

// FromEnv builds Settings from the environment alone.
func FromEnv() (Settings, error) {
	s := Settings{
		Renderer:       strings.ToLower(GetEnv("GAME_RENDERER", RendererANSI)),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogFile:        GetEnv("GAME_LOG_FILE", ""),
		SSHHost:        GetEnv("SSH_HOST", "::"),
		SSHPort:        GetEnv("SSH_PORT", "2222"),
		SSHHostKeyPath: GetEnv("SSH_HOST_KEY", ".ssh/host_ed25519"),
		WebHost:        GetEnv("WEB_HOST", "::"),
		WebPort:        GetEnv("WEB_PORT", "8080"),
		SSHDisplayHost: GetEnv("SSH_DISPLAY_HOST", "localhost"),
	}

	variant, err := sim.ParseVariant(GetEnv("GAME_VARIANT", ""))
	if err != nil {
		return Settings{}, fmt.Errorf("GAME_VARIANT: %w", err)
	}
	s.Variant = variant

	switch s.Renderer {
	case RendererANSI, RendererTcell:
	default:
		return Settings{}, fmt.Errorf("GAME_RENDERER=%q: %w", s.Renderer, ErrInvalidValue)
	}

	if s.Seed, err = GetEnvInt("GAME_SEED", 0); err != nil {
		return Settings{}, err
	}
	if s.LockBulletHeading, err = GetEnvBool("GAME_LOCK_BULLET_HEADING", false); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WorldOptions returns the simulation options these settings select.
// A non-zero Seed makes every world spawn the same enemies.
func (s Settings) WorldOptions() sim.Options {
	opts := sim.Options{
		Variant: s.Variant,
		Tuning:  sim.Tuning{LockBulletHeading: s.LockBulletHeading},
	}
	if s.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(s.Seed))
	}
	return opts
}
