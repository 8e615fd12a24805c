package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sphinxbuilder/cmd/sphinxbuilder/commands"
	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
)

func main() {
	config.LoadEnvFiles()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sphinxbuilder"),
		kong.Description("Build the Sphinx documentation: autogenerate reference pages, then run sphinx-build for a target."),
		kong.UsageOnError(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Logger: slog.Default()}, cli)
	cancel()

	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
