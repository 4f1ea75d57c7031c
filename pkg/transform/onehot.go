package transform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

const OneHotEncoderKind = "one_hot_encoder"

// HandleUnknown decides what the one-hot encoder does with labels it did not fit.
type HandleUnknown string

const (
	// UnknownError fails the transform with ErrUnknownCategory.
	UnknownError HandleUnknown = "error"
	// UnknownIgnore writes an all-zero indicator row.
	UnknownIgnore HandleUnknown = "ignore"
)

const defaultSeparator = "_"

// OneHotConfig configures a OneHotEncoder.
type OneHotConfig struct {
	// Columns pairs every input with the base name of its indicator columns.
	Columns    ColumnSpec `msgpack:"columns"`
	Categories Categories `msgpack:"categories"`
	Ordering   Ordering   `msgpack:"ordering"`
	// HandleUnknown defaults to UnknownError.
	HandleUnknown HandleUnknown `msgpack:"handle_unknown"`
	// Separator joins the base name and the label. Defaults to "_".
	Separator  string `msgpack:"separator"`
	DropInputs bool   `msgpack:"drop_inputs"`
}

// OneHotEncoder expands every input column into one 0/1 column per category, named
// <output><separator><label>.
type OneHotEncoder struct {
	cfg      OneHotConfig
	opts     stepOptions
	explicit map[string]*Vocabulary
	state    *VocabularyState
	vocabs   []*Vocabulary
	names    [][]string
}

// NewOneHotEncoder creates an unfitted encoder.
func NewOneHotEncoder(cfg OneHotConfig, opts ...StepOption) (*OneHotEncoder, error) {
	err := cfg.Columns.Validate()
	if err != nil {
		return nil, err
	}

	err = cfg.Ordering.validate()
	if err != nil {
		return nil, err
	}

	switch cfg.HandleUnknown {
	case "":
		cfg.HandleUnknown = UnknownError
	case UnknownError, UnknownIgnore:
	default:
		return nil, errors.Wrapf(ErrInvalidOption, "handle unknown %q", string(cfg.HandleUnknown))
	}

	if cfg.Separator == "" {
		cfg.Separator = defaultSeparator
	}

	explicit, err := explicitVocabularies(cfg.Columns, cfg.Categories)
	if err != nil {
		return nil, err
	}

	cfg.Columns = cfg.Columns.clone()
	cfg.Categories = cloneCategories(cfg.Categories)

	return &OneHotEncoder{cfg: cfg, opts: newStepOptions(opts), explicit: explicit}, nil
}

func (e *OneHotEncoder) Kind() string { return OneHotEncoderKind }

func (e *OneHotEncoder) Columns() ColumnSpec { return e.cfg.Columns.clone() }

// OutputColumns returns the indicator columns in input then vocabulary order, nil
// before Fit.
func (e *OneHotEncoder) OutputColumns() []string {
	var out []string
	for _, names := range e.names {
		out = append(out, names...)
	}

	return out
}

// OutputsOf returns the indicator columns of one input, nil before Fit.
func (e *OneHotEncoder) OutputsOf(input string) []string {
	for idx, in := range e.cfg.Columns.Inputs {
		if in == input && idx < len(e.names) {
			return append([]string(nil), e.names[idx]...)
		}
	}

	return nil
}

func (e *OneHotEncoder) IsFitted() bool { return e.state != nil }

// State returns the fitted vocabularies, nil before Fit.
func (e *OneHotEncoder) State() *VocabularyState { return copyVocabularyState(e.state) }

func (e *OneHotEncoder) Fit(ctx context.Context, ds *dataset.Dataset) error {
	vocabs, err := fitVocabularies(ctx, ds, e.cfg.Columns.Inputs, e.explicit, e.cfg.Ordering, false, e.opts.concurrent)
	if err != nil {
		return errors.Wrap(err, "unable to fit one hot encoder")
	}

	names, err := e.indicatorNames(vocabs)
	if err != nil {
		return errors.Wrap(err, "unable to fit one hot encoder")
	}

	e.vocabs = vocabs
	e.names = names
	e.state = vocabularyState(e.cfg.Columns.Inputs, vocabs)

	return nil
}

func (e *OneHotEncoder) indicatorNames(vocabs []*Vocabulary) ([][]string, error) {
	seen := make(map[string]struct{})
	names := make([][]string, len(vocabs))

	for idx, vocab := range vocabs {
		base := e.cfg.Columns.Output(idx)
		names[idx] = make([]string, vocab.Len())

		for r, label := range vocab.labels {
			name := base + e.cfg.Separator + label
			if _, ok := seen[name]; ok {
				return nil, errors.Wrapf(ErrOutputCollision, "indicator %q produced twice", name)
			}
			seen[name] = struct{}{}
			names[idx][r] = name
		}
	}

	return names, nil
}

func (e *OneHotEncoder) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if e.state == nil {
		return nil, ErrNotFitted
	}

	spec := e.cfg.Columns
	perInput := make([][]*dataset.Column, len(spec.Inputs))

	err := eachColumn(ctx, e.opts.concurrent, len(spec.Inputs), func(_ context.Context, idx int) error {
		labels, err := labelValues(ds, spec.Inputs[idx])
		if err != nil {
			return err
		}

		vocab := e.vocabs[idx]
		indicators := make([][]float64, vocab.Len())
		for r := range indicators {
			indicators[r] = make([]float64, len(labels))
		}

		for i, label := range labels {
			r, ok := vocab.Rank(label)
			if !ok {
				if e.cfg.HandleUnknown == UnknownIgnore {
					continue
				}

				return errors.Wrapf(ErrUnknownCategory, "column %q row %d: %q", spec.Inputs[idx], i, label)
			}
			indicators[r][i] = 1
		}

		cols := make([]*dataset.Column, vocab.Len())
		for r, values := range indicators {
			cols[r] = dataset.NewNumeric(e.names[idx][r], values)
		}
		perInput[idx] = cols

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to transform with one hot encoder")
	}

	var outs []*dataset.Column
	for _, cols := range perInput {
		outs = append(outs, cols...)
	}

	return writeIndicators(ds, spec, outs, e.cfg.DropInputs)
}

func (e *OneHotEncoder) Encode() ([]byte, []byte, error) {
	return encodeStep(e.cfg, e.state)
}

func decodeOneHotEncoder(config, state []byte, opts ...StepOption) (Step, error) {
	var cfg OneHotConfig

	err := Unmarshal(config, &cfg)
	if err != nil {
		return nil, err
	}

	e, err := NewOneHotEncoder(cfg, opts...)
	if err != nil {
		return nil, err
	}

	vocabs, err := decodeVocabularyState(state, cfg.Columns.Inputs)
	if err != nil {
		return nil, err
	}

	if vocabs == nil {
		return e, nil
	}

	names, err := e.indicatorNames(vocabs)
	if err != nil {
		return nil, errors.Wrapf(ErrSerialization, "%v", err)
	}

	e.vocabs = vocabs
	e.names = names
	e.state = vocabularyState(cfg.Columns.Inputs, vocabs)

	return e, nil
}

var (
	_ Step         = (*OneHotEncoder)(nil)
	_ ColumnMapper = (*OneHotEncoder)(nil)
)
