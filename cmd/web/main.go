package main

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyfall/internal/config"
	"github.com/tomz197/skyfall/internal/logging"
	gameconfig "github.com/tomz197/skyfall/internal/loop/config"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// pageData fills the landing page.
type pageData struct {
	SSHHost string
	SSHPort string
	Variant string
	Width   int
	Height  int
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(settings.LogLevel, os.Stderr, "web")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	addr := net.JoinHostPort(settings.WebHost, settings.WebPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(settings, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", addr, "sshHost", settings.SSHDisplayHost)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

// newHandler serves the landing page with connect instructions.
func newHandler(settings config.Settings, logger *log.Logger) http.Handler {
	data := pageData{
		SSHHost: settings.SSHDisplayHost,
		SSHPort: settings.SSHPort,
		Variant: settings.Variant.String(),
		Width:   gameconfig.MaxTermWidth,
		Height:  gameconfig.MaxTermHeight,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}
