package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trackkar/trackkar-cli/internal/buildinfo"
	"github.com/trackkar/trackkar-cli/internal/client/cli"
	"github.com/trackkar/trackkar-cli/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
