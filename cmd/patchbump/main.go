package main

import (
	"context"
	"os"

	"github.com/indaco/patchbump/internal/cli"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	cfg := config.Default()
	app := cli.New(cfg)
	return app.Run(context.Background(), args)
}
