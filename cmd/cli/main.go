package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/wardminutes/internal/buildinfo"
	"github.com/dmitrijs2005/wardminutes/internal/client/cli"
	"github.com/dmitrijs2005/wardminutes/internal/client/config"
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

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
