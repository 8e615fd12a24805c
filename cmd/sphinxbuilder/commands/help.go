package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
)

// HelpCmd prints the target list in the classic Makefile layout.
type HelpCmd struct{}

func (h *HelpCmd) Run(g *Global) error {
	_, err := fmt.Fprint(g.out(), targets.HelpText("sphinxbuilder"))
	return err
}
