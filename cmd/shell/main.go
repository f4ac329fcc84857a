package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/buildinfo"
	"github.com/dmitrijs2005/wardminutes/internal/client/client"
	"github.com/dmitrijs2005/wardminutes/internal/client/config"
	"github.com/dmitrijs2005/wardminutes/internal/client/shell"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		logFile := logging.NewRotatingFile(cfg.LogFile)
		defer logFile.Close()
		logOut = logFile
	}
	logger := logging.NewTextLogger(logOut, cfg.LogLevel)

	upstream, err := url.Parse(cfg.ShellUpstream)
	if err != nil {
		log.Fatalf("invalid shell upstream %q: %v", cfg.ShellUpstream, err)
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	worker, err := shell.NewWorker(client.NewRepositories(db).Shell, shell.Options{
		Origin:   upstream,
		Manifest: cfg.ShellManifest,
		Fallback: cfg.ShellFallback,
		Logger:   logger.With("component", "shell"),
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := worker.Install(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ShellAddr,
		Handler:           shell.NewHandler(worker, upstream, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "shell listening", "addr", cfg.ShellAddr, "upstream", upstream.String(), "state", worker.State())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "shell server failed", "error", err)
	}
}
