package model

import "time"

// Op names a pipeline operation.
type Op string

const (
	OpFit          Op = "fit"
	OpTransform    Op = "transform"
	OpFitTransform Op = "fit_transform"
)

// StepInfo describes a step of a pipeline.
type StepInfo struct {
	Name   string
	Kind   string
	Inputs []string
	// Outputs are the columns written by the step. Expanding steps only know them once
	// fitted.
	Outputs []string
	Fitted  bool
}

// RunInfo describes a finished pipeline call.
type RunInfo struct {
	PipelineID string
	Op         Op
	// Steps is the number of steps that completed.
	Steps    int
	Rows     int
	Duration time.Duration
	// Err is the error returned to the caller, nil on success.
	Err error
}

var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)
