package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/pipeline/measure"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
	// last is the latest step added, linked is the step currently linked to the end vertex.
	last   string
	linked string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}
	pd.last = model.StartStep.Name

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	err = pd.AddLink(parentStep.Name, step.Name)
	if err != nil {
		return err
	}
	pd.last = step.Name

	return nil
}

func (pd *pipelineDrawer) OnStepFit(*model.StepInfo, int, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnStepTransform(*model.StepInfo, int, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish(run *model.RunInfo) error {
	if pd.linked != pd.last {
		if pd.linked != "" {
			err := pd.RemoveLink(pd.linked, model.EndStep.Name)
			if err != nil {
				return err
			}
		}

		err := pd.AddLink(pd.last, model.EndStep.Name)
		if err != nil {
			return err
		}
		pd.linked = pd.last
	}

	err := pd.SetTotalTime(model.EndStep.Name, run.Duration)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the step chain after every run. When measure is set, steps are
// coloured by their average transform duration; measure must also be registered as a
// pipeline option, before the drawer.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
