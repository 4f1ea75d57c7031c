package measure

import (
	"time"

	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStep.Name)
	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepFit(step *model.StepInfo, _ int, duration time.Duration) error {
	pm.AddMetric(step.Name).AddFitDuration(duration)

	return nil
}

func (pm *pipelineMeasure) OnStepTransform(step *model.StepInfo, rows int, duration time.Duration) error {
	pm.AddMetric(step.Name).AddTransformDuration(duration, rows)

	return nil
}

func (pm *pipelineMeasure) Finish(run *model.RunInfo) error {
	pm.AddMetric(model.EndStep.Name).SetTotalDuration(run.Duration)

	return nil
}

// PipelineMeasure records step timings into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
