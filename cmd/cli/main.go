package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/isokodocs/isoko/internal/buildinfo"
	"github.com/isokodocs/isoko/internal/client/cli"
	"github.com/isokodocs/isoko/internal/client/config"
	"github.com/isokodocs/isoko/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)
	app, err := cli.NewApp(ctx, cfg, cli.WithLogger(logger))

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
