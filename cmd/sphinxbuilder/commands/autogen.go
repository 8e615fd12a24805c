package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sphinxbuilder/internal/autogen"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

// AutogenCmd implements the 'autogen' command.
type AutogenCmd struct{}

func (a *AutogenCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	env, err := toolEnv(cfg)
	if err != nil {
		return err
	}
	files, err := autogen.New(cfg, g.runner(), env).Run(g.ctx())
	if err != nil {
		return err
	}
	for _, f := range files {
		slog.Debug("Generated reference page", logfields.Path(f))
	}
	_, _ = fmt.Fprintf(g.out(), "Autogeneration finished; %d reference files in %s.\n", len(files), cfg.Sphinx.SourceDir)
	return nil
}
