package commands

import (
	"context"

	"git.home.luguber.info/inful/sphinxbuilder/internal/build"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
	"git.home.luguber.info/inful/sphinxbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Target string `short:"t" help:"Target to rebuild (default: watch.target from config, html)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	target := w.Target
	if target == "" {
		target = cfg.Watch.Target
	}
	if _, ok := targets.Lookup(target); !ok {
		return derrors.UnknownTarget(target)
	}

	rec, flush := metricsSink(cfg)
	svc := build.NewService(cfg, g.runner()).WithRecorder(rec).WithOutput(g.out())
	watcher, err := watch.New(cfg, func(ctx context.Context) error {
		defer flush()
		_, err := svc.Run(ctx, build.Request{Target: target, SkipAutogen: root.NoAutogen})
		return err
	})
	if err != nil {
		return derrors.InternalError("failed to start watcher", err)
	}
	return watcher.Run(g.ctx())
}
