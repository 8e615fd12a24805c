package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sphinxbuilder/internal/autogen"
	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
	"git.home.luguber.info/inful/sphinxbuilder/internal/metrics"
	"git.home.luguber.info/inful/sphinxbuilder/internal/observability"
	"git.home.luguber.info/inful/sphinxbuilder/internal/runner"
	"git.home.luguber.info/inful/sphinxbuilder/internal/sphinx"
	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
	"git.home.luguber.info/inful/sphinxbuilder/internal/workspace"
)

// State is shared by the stages of one run.
type State struct {
	Config     *config.Config
	Target     targets.Target
	Env        map[string]string
	Invocation sphinx.Invocation
	Runner     runner.Runner
	Workspace  *workspace.Manager
	Autogen    *autogen.Step
	Report     *Report
	Recorder   metrics.Recorder
}

// RunStages executes stages in order, recording timing and stopping on the first error.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	if st.Recorder == nil {
		st.Recorder = metrics.NoopRecorder{}
	}
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(def.Name, derrors.Canceled(ctx.Err()))
			st.Report.RecordStageResult(def.Name, StageResultCanceled, st.Recorder)
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, string(def.Name))
		observability.DebugContext(stageCtx, "Stage starting")
		t0 := time.Now()
		err := def.Fn(stageCtx, st)
		dur := time.Since(t0)

		st.Report.StageDurations[string(def.Name)] = dur
		st.Recorder.ObserveStageDuration(string(def.Name), dur)

		if err != nil {
			if ctx.Err() != nil {
				st.Report.RecordStageResult(def.Name, StageResultCanceled, st.Recorder)
				return NewCanceledStageError(def.Name, derrors.Canceled(err))
			}
			st.Report.RecordStageResult(def.Name, StageResultFatal, st.Recorder)
			return NewFatalStageError(def.Name, err)
		}

		st.Report.RecordStageResult(def.Name, StageResultSuccess, st.Recorder)
		observability.DebugContext(stageCtx, "Stage finished", logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}
