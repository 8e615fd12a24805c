package commands

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sphinxbuilder/internal/build"
)

// TargetCmd builds one output format. The same type backs every format
// subcommand; the selected command name is the target.
type TargetCmd struct{}

func (t *TargetCmd) Run(kctx *kong.Context, g *Global, root *CLI) error {
	return RunTarget(g, root, kctx.Selected().Name)
}

// RunTarget loads the configuration and builds target.
func RunTarget(g *Global, root *CLI, target string) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	rec, flush := metricsSink(cfg)
	defer flush()

	svc := build.NewService(cfg, g.runner()).WithRecorder(rec).WithOutput(g.out())
	_, err = svc.Run(g.ctx(), build.Request{Target: target, SkipAutogen: root.NoAutogen})
	return err
}
