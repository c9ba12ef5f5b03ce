// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StageName identifies one step of the conversion pipeline.
type StageName string

const (
	StageConvert StageName = "convert"
	StageRender  StageName = "render"
)

// StageStatus indicates the state of one pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageSucceeded StageStatus = "succeeded"
	StageFailed    StageStatus = "failed"
)

// StageState records the outcome of a single stage attempt.
type StageState struct {
	Name     StageName     `json:"name" yaml:"name"`
	Status   StageStatus   `json:"status" yaml:"status"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Reason is a human-readable failure cause; empty unless Status is failed.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// PipelineRun is the transient state of one conversion attempt. It is created
// when a document is selected and discarded when the run ends.
type PipelineRun struct {
	// ID correlates log lines of a single run.
	ID string `json:"id" yaml:"id"`

	Document         DocumentEntry `json:"document" yaml:"document"`
	IntermediatePath string        `json:"intermediate_path" yaml:"intermediate_path"`
	FinalPath        string        `json:"final_path" yaml:"final_path"`

	// Stages holds convert then render, in execution order.
	Stages [2]StageState `json:"stages" yaml:"stages"`

	// PageCount is the number of pages in the final document, 0 if unknown.
	PageCount int `json:"page_count,omitempty" yaml:"page_count,omitempty"`
}

// Stage returns a pointer to the state of the named stage.
func (r *PipelineRun) Stage(name StageName) *StageState {
	if name == StageRender {
		return &r.Stages[1]
	}
	return &r.Stages[0]
}

// Succeeded reports whether both stages completed successfully.
func (r *PipelineRun) Succeeded() bool {
	return r.Stages[0].Status == StageSucceeded && r.Stages[1].Status == StageSucceeded
}

// FailedStage returns the first failed stage, or nil when none failed.
func (r *PipelineRun) FailedStage() *StageState {
	for i := range r.Stages {
		if r.Stages[i].Status == StageFailed {
			return &r.Stages[i]
		}
	}
	return nil
}
