package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/config"
	"github.com/vidfetch/vidfetch/internal/convert"
	"github.com/vidfetch/vidfetch/internal/history"
	"github.com/vidfetch/vidfetch/internal/job"
	"github.com/vidfetch/vidfetch/internal/media"
	"github.com/vidfetch/vidfetch/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.vidfetch.vidfetch"
	AppName = "VidFetch"

	// Outstanding jobs get this long to wind down on window close.
	shutdownGrace = 3 * time.Second
)

func main() {
	cfg, err := config.NewDefaultManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot load settings: %v\n", err)
	}

	setupLogging(cfg.LogPath())
	log.WithFields(log.Fields{"version": version}).Info("starting")

	store := history.NewStore(cfg.HistoryPath())
	if err := store.EnsureSchema(); err != nil {
		log.WithError(err).Error("cannot initialize history database")
	}

	session := media.NewYTDLPSession()
	runner := job.NewRunner(session, store)
	bridge := job.NewBridge()
	convSvc := convert.NewService()

	myApp := app.NewWithID(AppID)
	ui.ApplyTheme(myApp, cfg.Get().Theme)

	window := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	ui.NewRootUI(window, session, runner, bridge, store, convSvc, cfg)

	window.SetOnClosed(func() {
		bridge.Shutdown(shutdownGrace)
	})
	window.ShowAndRun()
}

// setupLogging tees structured logs to the per-user log file and stderr.
func setupLogging(path string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.WithError(err).Warn("cannot open log file, logging to stderr only")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
}
