package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

type namedStep struct {
	name string
	step transform.Step
}

// Pipeline is an ordered list of named steps.
type Pipeline struct {
	id    uuid.UUID
	steps []namedStep
	index map[string]int
	opts  []model.PipelineOption
}

// New creates a new empty pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	return newPipeline(uuid.New(), opts)
}

func newPipeline(id uuid.UUID, opts []model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		id:    id,
		index: make(map[string]int),
		opts:  opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// ID identifies the pipeline. It is kept by persistence.
func (p *Pipeline) ID() uuid.UUID { return p.id }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// AddStep appends a step. Names must be unique and not empty. The names of
// model.StartStep and model.EndStep are reserved, and a name may not contain ":".
func (p *Pipeline) AddStep(name string, step transform.Step) error {
	if name == "" {
		return ErrStepNameRequired
	}

	if name == model.StartStep.Name || name == model.EndStep.Name || strings.Contains(name, lineageSeparator) {
		return errors.Wrapf(ErrInvalidStepName, "%q", name)
	}

	if step == nil {
		return errors.Wrapf(ErrStepMustBeSet, "%q", name)
	}

	if _, ok := p.index[name]; ok {
		return errors.Wrapf(ErrDuplicateStep, "%q", name)
	}

	parent := model.StartStep
	if len(p.steps) > 0 {
		parent = stepInfo(p.steps[len(p.steps)-1])
	}

	ns := namedStep{name: name, step: step}
	info := stepInfo(ns)

	for _, opt := range p.opts {
		err := opt.PrepareStep(parent, info)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare step %q", name)
		}
	}

	p.index[name] = len(p.steps)
	p.steps = append(p.steps, ns)

	return nil
}

// Step returns the named step.
func (p *Pipeline) Step(name string) (transform.Step, bool) {
	idx, ok := p.index[name]
	if !ok {
		return nil, false
	}

	return p.steps[idx].step, true
}

// Steps describes the steps in order.
func (p *Pipeline) Steps() []model.StepInfo {
	out := make([]model.StepInfo, len(p.steps))
	for i, ns := range p.steps {
		out[i] = *stepInfo(ns)
	}

	return out
}

// IsFitted reports whether every step is fitted. An empty pipeline is fitted.
func (p *Pipeline) IsFitted() bool {
	for _, ns := range p.steps {
		if !ns.step.IsFitted() {
			return false
		}
	}

	return true
}

// Fit fits every step in order. Each step is fitted on the output of the previous one.
// When a step fails, the steps before it keep their new state.
func (p *Pipeline) Fit(ctx context.Context, ds *dataset.Dataset) error {
	_, err := p.run(ctx, model.OpFit, ds)

	return err
}

// FitTransform fits every step and returns the transformed dataset.
func (p *Pipeline) FitTransform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	return p.run(ctx, model.OpFitTransform, ds)
}

// Transform chains the transforms of every step. It fails before running anything when a
// step is not fitted.
func (p *Pipeline) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	return p.run(ctx, model.OpTransform, ds)
}

func (p *Pipeline) run(ctx context.Context, op model.Op, ds *dataset.Dataset) (res *dataset.Dataset, err error) {
	startTime := time.Now()
	run := &model.RunInfo{PipelineID: p.id.String(), Op: op}

	defer func() {
		run.Duration = time.Since(startTime)
		run.Err = err

		finishErr := p.finishRun(run)
		if err == nil && finishErr != nil {
			res, err = nil, finishErr
		}
	}()

	if ds == nil {
		return nil, ErrDatasetMustBeSet
	}
	run.Rows = ds.Len()

	fit := op != model.OpTransform
	if !fit {
		err = p.checkFitted()
		if err != nil {
			return nil, err
		}
	}

	curr := ds
	for _, ns := range p.steps {
		curr, err = p.runStep(ctx, ns, curr, fit)
		if err != nil {
			return nil, err
		}
		run.Steps++
	}

	return curr, nil
}

func (p *Pipeline) runStep(ctx context.Context, ns namedStep, ds *dataset.Dataset, fit bool) (*dataset.Dataset, error) {
	if fit {
		if err := ctx.Err(); err != nil {
			return nil, &StepError{Step: ns.name, Op: model.OpFit, Err: err}
		}

		startTime := time.Now()

		err := ns.step.Fit(ctx, ds)
		if err != nil {
			return nil, &StepError{Step: ns.name, Op: model.OpFit, Err: err}
		}

		err = p.onStep(ns, ds.Len(), time.Since(startTime), model.PipelineOption.OnStepFit)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &StepError{Step: ns.name, Op: model.OpTransform, Err: err}
	}

	startTime := time.Now()

	res, err := ns.step.Transform(ctx, ds)
	if err != nil {
		return nil, &StepError{Step: ns.name, Op: model.OpTransform, Err: err}
	}

	err = p.onStep(ns, res.Len(), time.Since(startTime), model.PipelineOption.OnStepTransform)
	if err != nil {
		return nil, err
	}

	return res, nil
}

type stepHook func(opt model.PipelineOption, step *model.StepInfo, rows int, duration time.Duration) error

func (p *Pipeline) onStep(ns namedStep, rows int, elapsed time.Duration, hook stepHook) error {
	if len(p.opts) == 0 {
		return nil
	}

	info := stepInfo(ns)
	for _, opt := range p.opts {
		err := hook(opt, info, rows, elapsed)
		if err != nil {
			return errors.Wrapf(err, "pipeline option failed on step %q", ns.name)
		}
	}

	return nil
}

func (p *Pipeline) checkFitted() error {
	for _, ns := range p.steps {
		if !ns.step.IsFitted() {
			return &StepError{
				Step: ns.name,
				Op:   model.OpTransform,
				Err:  errors.Wrap(ErrNotFitted, "pipeline not fitted"),
			}
		}
	}

	return nil
}

func (p *Pipeline) finishRun(run *model.RunInfo) error {
	for _, opt := range p.opts {
		err := opt.Finish(run)
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

func stepInfo(ns namedStep) *model.StepInfo {
	outputs := ns.step.OutputColumns()
	if outputs == nil {
		outputs = ns.step.Columns().ResolvedOutputs()
	}

	return &model.StepInfo{
		Name:    ns.name,
		Kind:    ns.step.Kind(),
		Inputs:  ns.step.Columns().Inputs,
		Outputs: outputs,
		Fitted:  ns.step.IsFitted(),
	}
}
