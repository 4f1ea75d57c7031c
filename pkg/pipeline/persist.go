package pipeline

import (
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

const (
	blobMagic   = "GOPREP"
	blobVersion = 1
)

type blob struct {
	Magic   string     `msgpack:"magic"`
	Version int        `msgpack:"version"`
	ID      string     `msgpack:"id"`
	Steps   []blobStep `msgpack:"steps"`
}

type blobStep struct {
	Name   string `msgpack:"name"`
	Kind   string `msgpack:"kind"`
	Config []byte `msgpack:"config"`
	State  []byte `msgpack:"state"`
}

// MarshalBinary encodes the pipeline, fitted or not. Equal pipelines encode to equal
// bytes.
func (p *Pipeline) MarshalBinary() ([]byte, error) {
	b := blob{
		Magic:   blobMagic,
		Version: blobVersion,
		ID:      p.id.String(),
		Steps:   make([]blobStep, len(p.steps)),
	}

	for i, ns := range p.steps {
		config, state, err := ns.step.Encode()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to encode step %q", ns.name)
		}

		b.Steps[i] = blobStep{Name: ns.name, Kind: ns.step.Kind(), Config: config, State: state}
	}

	data, err := transform.Marshal(b)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode pipeline")
	}

	return data, nil
}

// Save writes the encoded pipeline to w.
func (p *Pipeline) Save(w io.Writer) error {
	data, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	if err != nil {
		return errors.Wrap(err, "unable to write pipeline")
	}

	return nil
}

type loadOptions struct {
	pipelineOpts []model.PipelineOption
	stepOpts     []transform.StepOption
}

// LoadOption configures Unmarshal and Load.
type LoadOption func(o *loadOptions)

// WithPipelineOptions attaches pipeline options to the restored pipeline.
func WithPipelineOptions(opts ...model.PipelineOption) LoadOption {
	return func(o *loadOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithStepOptions applies step options to every restored step.
func WithStepOptions(opts ...transform.StepOption) LoadOption {
	return func(o *loadOptions) {
		o.stepOpts = append(o.stepOpts, opts...)
	}
}

// Unmarshal restores a pipeline encoded by MarshalBinary. Invalid data fails with
// ErrSerialization.
func Unmarshal(data []byte, opts ...LoadOption) (*Pipeline, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var b blob

	err := transform.Unmarshal(data, &b)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode pipeline")
	}

	if b.Magic != blobMagic {
		return nil, errors.Wrap(ErrSerialization, "not a pipeline blob")
	}

	if b.Version != blobVersion {
		return nil, errors.Wrapf(ErrSerialization, "unsupported version %d", b.Version)
	}

	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, errors.Wrapf(ErrSerialization, "invalid pipeline id %q", b.ID)
	}

	pipe, err := newPipeline(id, o.pipelineOpts)
	if err != nil {
		return nil, err
	}

	for _, bs := range b.Steps {
		step, err := transform.Decode(bs.Kind, bs.Config, bs.State, o.stepOpts...)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode step %q", bs.Name)
		}

		err = pipe.AddStep(bs.Name, step)
		if err != nil {
			if errors.Is(err, ErrConfiguration) {
				return nil, errors.Wrapf(ErrSerialization, "%v", err)
			}

			return nil, err
		}
	}

	return pipe, nil
}

// Load reads and restores a pipeline written by Save.
func Load(r io.Reader, opts ...LoadOption) (*Pipeline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read pipeline")
	}

	return Unmarshal(data, opts...)
}
