package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sphinxbuilder/internal/metrics"
	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
	"git.home.luguber.info/inful/sphinxbuilder/internal/version"
)

// ReportFile is written into the build directory after every run.
const ReportFile = "build-report.json"

// Outcome is the final result of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report captures what happened during one target build.
type Report struct {
	SchemaVersion  int                      `json:"schema_version"`
	ID             string                   `json:"id"`
	Target         string                   `json:"target"`
	Builder        string                   `json:"builder"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	StageResults   map[string]StageResult   `json:"stage_results"`
	Outcome        Outcome                  `json:"outcome"`
	OutputDir      string                   `json:"output_dir"`
	GeneratedFiles int                      `json:"generated_files"`
	SphinxVersion  string                   `json:"sphinx_version,omitempty"`
	SourceRevision string                   `json:"source_revision,omitempty"`
	SourceBranch   string                   `json:"source_branch,omitempty"`
	ToolVersion    string                   `json:"sphinxbuilder_version"`
	Errors         []string                 `json:"errors,omitempty"`
}

// NewReport starts a report for target t.
func NewReport(t targets.Target) *Report {
	return &Report{
		SchemaVersion:  1,
		ID:             uuid.NewString(),
		Target:         t.Name,
		Builder:        t.Builder,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
		StageResults:   make(map[string]StageResult),
		ToolVersion:    version.Version,
	}
}

// RecordStageResult stores the stage outcome and emits the matching counter.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageResults[string(stage)] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	case StageResultSkipped:
		recorder.IncStageResult(string(stage), metrics.ResultSkipped)
	}
}

// Finish stamps the end time and derives the outcome from err.
func (r *Report) Finish(err error) {
	r.End = time.Now()
	if err == nil {
		r.Outcome = OutcomeSuccess
		return
	}
	r.Errors = append(r.Errors, err.Error())
	var se *StageError
	if errors.As(err, &se) && se.Kind == StageErrorCanceled {
		r.Outcome = OutcomeCanceled
		return
	}
	r.Outcome = OutcomeFailed
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary returns a human-readable single-line summary for the final log line.
func (r *Report) Summary() string {
	return fmt.Sprintf("target=%s builder=%s duration=%s stages=%d generated=%d outcome=%s",
		r.Target, r.Builder, r.Duration().Truncate(time.Millisecond), len(r.StageDurations), r.GeneratedFiles, r.Outcome)
}

// Persist writes the report atomically into dir.
func (r *Report) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	jb, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	path := filepath.Join(dir, ReportFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jb, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}

// LoadReport reads a persisted report from dir.
func LoadReport(dir string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report json: %w", err)
	}
	return &r, nil
}
