// Package logging provides a pipeline option that logs pipeline activity with slog.
package logging

import (
	"log/slog"
	"time"

	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

type pipelineLogger struct {
	logger *slog.Logger
}

func (pl *pipelineLogger) New() error {
	pl.logger.Debug("Pipeline created.")

	return nil
}

func (pl *pipelineLogger) PrepareStep(parentStep, step *model.StepInfo) error {
	pl.logger.Debug("Step added.",
		"step", step.Name,
		"kind", step.Kind,
		"after", parentStep.Name,
		"inputs", step.Inputs,
	)

	return nil
}

func (pl *pipelineLogger) OnStepFit(step *model.StepInfo, rows int, duration time.Duration) error {
	pl.logger.Debug("Step fitted.", "step", step.Name, "rows", rows, "duration", duration)

	return nil
}

func (pl *pipelineLogger) OnStepTransform(step *model.StepInfo, rows int, duration time.Duration) error {
	pl.logger.Debug("Step transformed.",
		"step", step.Name,
		"rows", rows,
		"outputs", step.Outputs,
		"duration", duration,
	)

	return nil
}

func (pl *pipelineLogger) Finish(run *model.RunInfo) error {
	attrs := []any{
		"pipeline", run.PipelineID,
		"op", string(run.Op),
		"steps", run.Steps,
		"rows", run.Rows,
		"duration", run.Duration,
	}

	if run.Err != nil {
		pl.logger.Error("Pipeline run failed.", append(attrs, "error", run.Err)...)

		return nil
	}

	pl.logger.Info("Pipeline run finished.", attrs...)

	return nil
}

// PipelineLogger logs step registration and step timings at debug level and every run at
// info level, or error level when the run failed. A nil logger uses slog.Default.
func PipelineLogger(logger *slog.Logger) model.PipelineOption {
	if logger == nil {
		logger = slog.Default()
	}

	return &pipelineLogger{logger: logger}
}
