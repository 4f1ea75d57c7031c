package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStepOption

	// Finish runs after every Fit, FitTransform or Transform call, failed or not.
	Finish(run *RunInfo) error
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// PrepareStep runs when a step is added. parentStep is the previous step, or StartStep
	// for the first one.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepFit runs after a step learned its parameters.
	OnStepFit(step *StepInfo, rows int, duration time.Duration) error
	// OnStepTransform runs after a step wrote its output columns, during Fit as well as
	// during Transform.
	OnStepTransform(step *StepInfo, rows int, duration time.Duration) error
}
