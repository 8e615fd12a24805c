package commands

import (
	"git.home.luguber.info/inful/sphinxbuilder/internal/autogen"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/workspace"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ws := workspace.NewManager(cfg.Sphinx.BuildDir)
	if _, err := ws.Clean(); err != nil {
		return derrors.FileSystemError("clean", ws.GetPath(), err)
	}
	_, err = autogen.Clean(cfg)
	return err
}
