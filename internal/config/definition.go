package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

var (
	ErrInvalidDefinition = errors.WithMessage(transform.ErrConfiguration, "invalid pipeline definition")
	ErrUnknownStepType   = errors.WithMessage(ErrInvalidDefinition, "unknown step type")
	ErrUnusedOption      = errors.WithMessage(ErrInvalidDefinition, "option does not apply to step type")
)

// Definition is the YAML description of an unfitted pipeline.
type Definition struct {
	Steps []StepDef `yaml:"steps"`
}

// StepDef describes one step. Options that do not apply to Type are rejected.
type StepDef struct {
	Name               string              `yaml:"name"`
	Type               string              `yaml:"type"`
	Inputs             []string            `yaml:"inputs"`
	Outputs            []string            `yaml:"outputs,omitempty"`
	Clip               bool                `yaml:"clip,omitempty"`
	Categories         map[string][]string `yaml:"categories,omitempty"`
	Ordering           string              `yaml:"ordering,omitempty"`
	HandleUnknown      string              `yaml:"handle_unknown,omitempty"`
	Separator          string              `yaml:"separator,omitempty"`
	DropInputs         bool                `yaml:"drop_inputs,omitempty"`
	ValidateCategories bool                `yaml:"validate_categories,omitempty"`
	Places             int32               `yaml:"places,omitempty"`
}

// ReadDefinition decodes a definition. Unknown keys are an error.
func ReadDefinition(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition

	err := dec.Decode(&def)
	if errors.Is(err, io.EOF) {
		return &def, nil
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDefinition, "%v", err)
	}

	return &def, nil
}

// ReadDefinitionFile decodes the definition stored at path.
func ReadDefinitionFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open definition")
	}
	defer f.Close()

	def, err := ReadDefinition(f)
	if err != nil {
		return nil, errors.Wrapf(err, "definition %s", path)
	}

	return def, nil
}

// Marshal encodes the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(d)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode definition")
	}

	err = enc.Close()
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode definition")
	}

	return buf.Bytes(), nil
}

// BuildOptions carries the settings a definition does not hold.
type BuildOptions struct {
	// Separator applies to one-hot steps that leave theirs empty.
	Separator       string
	StepOptions     []transform.StepOption
	PipelineOptions []model.PipelineOption
}

// Build creates the unfitted pipeline described by d.
func (d *Definition) Build(opts BuildOptions) (*pipeline.Pipeline, error) {
	pipe, err := pipeline.New(opts.PipelineOptions...)
	if err != nil {
		return nil, err
	}

	for i, sd := range d.Steps {
		step, err := sd.build(opts)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d (%s)", i, sd.Name)
		}

		err = pipe.AddStep(sd.Name, step)
		if err != nil {
			return nil, err
		}
	}

	return pipe, nil
}

func (sd StepDef) build(opts BuildOptions) (transform.Step, error) {
	err := sd.checkOptions()
	if err != nil {
		return nil, err
	}

	cols := transform.ColumnSpec{Inputs: sd.Inputs, Outputs: sd.Outputs}

	switch sd.Type {
	case transform.MinMaxScalerKind:
		return transform.NewMinMaxScaler(transform.MinMaxConfig{
			Columns:    cols,
			Clip:       sd.Clip,
			DropInputs: sd.DropInputs,
		}, opts.StepOptions...)
	case transform.OrdinalEncoderKind:
		return transform.NewOrdinalEncoder(transform.OrdinalConfig{
			Columns:            cols,
			Categories:         sd.Categories,
			Ordering:           transform.Ordering(sd.Ordering),
			ValidateCategories: sd.ValidateCategories,
			DropInputs:         sd.DropInputs,
		}, opts.StepOptions...)
	case transform.OneHotEncoderKind:
		sep := sd.Separator
		if sep == "" {
			sep = opts.Separator
		}

		return transform.NewOneHotEncoder(transform.OneHotConfig{
			Columns:       cols,
			Categories:    sd.Categories,
			Ordering:      transform.Ordering(sd.Ordering),
			HandleUnknown: transform.HandleUnknown(sd.HandleUnknown),
			Separator:     sep,
			DropInputs:    sd.DropInputs,
		}, opts.StepOptions...)
	case transform.RounderKind:
		return transform.NewRounder(transform.RounderConfig{
			Columns:    cols,
			Places:     sd.Places,
			DropInputs: sd.DropInputs,
		}, opts.StepOptions...)
	default:
		return nil, errors.Wrapf(ErrUnknownStepType, "%q", sd.Type)
	}
}

// applies lists the options each step type accepts on top of name, type, inputs, outputs
// and drop_inputs.
var applies = map[string][]string{
	transform.MinMaxScalerKind:   {"clip"},
	transform.OrdinalEncoderKind: {"categories", "ordering", "validate_categories"},
	transform.OneHotEncoderKind:  {"categories", "ordering", "handle_unknown", "separator"},
	transform.RounderKind:        {"places"},
}

func (sd StepDef) checkOptions() error {
	allowed, ok := applies[sd.Type]
	if !ok {
		return errors.Wrapf(ErrUnknownStepType, "%q", sd.Type)
	}

	set := map[string]bool{
		"clip":                sd.Clip,
		"categories":          sd.Categories != nil,
		"ordering":            sd.Ordering != "",
		"handle_unknown":      sd.HandleUnknown != "",
		"separator":           sd.Separator != "",
		"validate_categories": sd.ValidateCategories,
		"places":              sd.Places != 0,
	}

	for _, name := range allowed {
		delete(set, name)
	}

	var unused []string
	for _, name := range []string{"clip", "categories", "ordering", "handle_unknown", "separator", "validate_categories", "places"} {
		if set[name] {
			unused = append(unused, name)
		}
	}

	if len(unused) > 0 {
		return errors.Wrapf(ErrUnusedOption, "%s: %s", sd.Type, strings.Join(unused, ", "))
	}

	return nil
}
