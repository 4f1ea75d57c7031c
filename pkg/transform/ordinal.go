package transform

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

const OrdinalEncoderKind = "ordinal_encoder"

// OrdinalConfig configures an OrdinalEncoder.
type OrdinalConfig struct {
	Columns ColumnSpec `msgpack:"columns"`
	// Categories fixes the vocabulary of some input columns. The rank of a label is its
	// position in the list.
	Categories Categories `msgpack:"categories"`
	// Ordering applies to vocabularies learned during Fit. Defaults to FirstSeen.
	Ordering Ordering `msgpack:"ordering"`
	// ValidateCategories makes Fit fail when a value is outside an explicit vocabulary.
	ValidateCategories bool `msgpack:"validate_categories"`
	DropInputs         bool `msgpack:"drop_inputs"`
}

// OrdinalEncoder replaces categories by their integer rank in a vocabulary.
type OrdinalEncoder struct {
	cfg      OrdinalConfig
	opts     stepOptions
	explicit map[string]*Vocabulary
	state    *VocabularyState
	vocabs   []*Vocabulary
}

// NewOrdinalEncoder creates an unfitted encoder.
func NewOrdinalEncoder(cfg OrdinalConfig, opts ...StepOption) (*OrdinalEncoder, error) {
	err := cfg.Columns.Validate()
	if err != nil {
		return nil, err
	}

	err = cfg.Ordering.validate()
	if err != nil {
		return nil, err
	}

	explicit, err := explicitVocabularies(cfg.Columns, cfg.Categories)
	if err != nil {
		return nil, err
	}

	cfg.Columns = cfg.Columns.clone()
	cfg.Categories = cloneCategories(cfg.Categories)

	return &OrdinalEncoder{cfg: cfg, opts: newStepOptions(opts), explicit: explicit}, nil
}

func (e *OrdinalEncoder) Kind() string { return OrdinalEncoderKind }

func (e *OrdinalEncoder) Columns() ColumnSpec { return e.cfg.Columns.clone() }

func (e *OrdinalEncoder) OutputColumns() []string { return e.cfg.Columns.ResolvedOutputs() }

func (e *OrdinalEncoder) IsFitted() bool { return e.state != nil }

// State returns the fitted vocabularies, nil before Fit.
func (e *OrdinalEncoder) State() *VocabularyState { return copyVocabularyState(e.state) }

func (e *OrdinalEncoder) Fit(ctx context.Context, ds *dataset.Dataset) error {
	vocabs, err := fitVocabularies(ctx, ds, e.cfg.Columns.Inputs, e.explicit, e.cfg.Ordering, e.cfg.ValidateCategories, e.opts.concurrent)
	if err != nil {
		return errors.Wrap(err, "unable to fit ordinal encoder")
	}

	e.setVocabularies(vocabs)

	return nil
}

func (e *OrdinalEncoder) setVocabularies(vocabs []*Vocabulary) {
	e.vocabs = vocabs
	e.state = vocabularyState(e.cfg.Columns.Inputs, vocabs)
}

func (e *OrdinalEncoder) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if e.state == nil {
		return nil, ErrNotFitted
	}

	spec := e.cfg.Columns
	outs := make([]*dataset.Column, len(spec.Inputs))

	err := eachColumn(ctx, e.opts.concurrent, len(spec.Inputs), func(_ context.Context, idx int) error {
		labels, err := labelValues(ds, spec.Inputs[idx])
		if err != nil {
			return err
		}

		vocab := e.vocabs[idx]
		ranks := make([]float64, len(labels))
		for i, label := range labels {
			r, ok := vocab.Rank(label)
			if !ok {
				return errors.Wrapf(ErrUnknownCategory, "column %q row %d: %q", spec.Inputs[idx], i, label)
			}
			ranks[i] = float64(r)
		}
		outs[idx] = dataset.NewNumeric(spec.Output(idx), ranks)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to transform with ordinal encoder")
	}

	return writeColumns(ds, spec, outs, e.cfg.DropInputs)
}

// InverseTransform maps the ranks held in the output columns back to their labels,
// written as categorical columns named after the inputs.
func (e *OrdinalEncoder) InverseTransform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if e.state == nil {
		return nil, ErrNotFitted
	}

	spec := e.cfg.Columns
	outs := make([]*dataset.Column, len(spec.Inputs))

	err := eachColumn(ctx, e.opts.concurrent, len(spec.Inputs), func(_ context.Context, idx int) error {
		ranks, err := numericValues(ds, spec.Output(idx))
		if err != nil {
			return err
		}

		vocab := e.vocabs[idx]
		labels := make([]string, len(ranks))
		for i, r := range ranks {
			if r != math.Trunc(r) || r < 0 || int(r) >= vocab.Len() {
				return errors.Wrapf(ErrUnknownCategory, "column %q row %d: rank %v", spec.Output(idx), i, r)
			}
			labels[i] = vocab.labels[int(r)]
		}
		outs[idx] = dataset.NewCategorical(spec.Inputs[idx], labels)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to inverse transform with ordinal encoder")
	}

	return ds.With(outs...)
}

func (e *OrdinalEncoder) Encode() ([]byte, []byte, error) {
	return encodeStep(e.cfg, e.state)
}

func decodeOrdinalEncoder(config, state []byte, opts ...StepOption) (Step, error) {
	var cfg OrdinalConfig

	err := Unmarshal(config, &cfg)
	if err != nil {
		return nil, err
	}

	e, err := NewOrdinalEncoder(cfg, opts...)
	if err != nil {
		return nil, err
	}

	vocabs, err := decodeVocabularyState(state, cfg.Columns.Inputs)
	if err != nil {
		return nil, err
	}

	if vocabs != nil {
		e.setVocabularies(vocabs)
	}

	return e, nil
}

// fitVocabularies resolves one vocabulary per input column, in input order.
func fitVocabularies(
	ctx context.Context,
	ds *dataset.Dataset,
	inputs []string,
	explicit map[string]*Vocabulary,
	ordering Ordering,
	validate bool,
	concurrent int,
) ([]*Vocabulary, error) {
	vocabs := make([]*Vocabulary, len(inputs))

	err := eachColumn(ctx, concurrent, len(inputs), func(_ context.Context, idx int) error {
		name := inputs[idx]

		vocab, ok := explicit[name]
		if ok && !validate {
			err := checkColumns(ds, []string{name})
			if err != nil {
				return err
			}
			vocabs[idx] = vocab

			return nil
		}

		labels, err := labelValues(ds, name)
		if err != nil {
			return err
		}

		if ok {
			for i, label := range labels {
				if _, known := vocab.Rank(label); !known {
					return errors.Wrapf(ErrUnknownCategory, "column %q row %d: %q is not in the declared categories", name, i, label)
				}
			}
			vocabs[idx] = vocab

			return nil
		}

		vocabs[idx] = learnVocabulary(labels, ordering)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return vocabs, nil
}

func vocabularyState(inputs []string, vocabs []*Vocabulary) *VocabularyState {
	st := &VocabularyState{Vocabularies: make([]ColumnVocabulary, len(inputs))}
	for i, name := range inputs {
		st.Vocabularies[i] = ColumnVocabulary{Column: name, Labels: vocabs[i].Labels()}
	}

	return st
}

func copyVocabularyState(st *VocabularyState) *VocabularyState {
	if st == nil {
		return nil
	}

	out := &VocabularyState{Vocabularies: make([]ColumnVocabulary, len(st.Vocabularies))}
	for i, cv := range st.Vocabularies {
		out.Vocabularies[i] = ColumnVocabulary{Column: cv.Column, Labels: append([]string(nil), cv.Labels...)}
	}

	return out
}

// decodeVocabularyState returns nil vocabularies for an unfitted step.
func decodeVocabularyState(state []byte, inputs []string) ([]*Vocabulary, error) {
	var st *VocabularyState

	err := Unmarshal(state, &st)
	if err != nil {
		return nil, err
	}

	if st == nil {
		return nil, nil
	}

	if len(st.Vocabularies) != len(inputs) {
		return nil, errors.Wrapf(ErrSerialization, "%d vocabularies for %d columns", len(st.Vocabularies), len(inputs))
	}

	vocabs := make([]*Vocabulary, len(inputs))
	for i, cv := range st.Vocabularies {
		if cv.Column != inputs[i] {
			return nil, errors.Wrapf(ErrSerialization, "vocabulary %d is for %q, want %q", i, cv.Column, inputs[i])
		}

		v, err := NewVocabulary(cv.Labels)
		if err != nil {
			return nil, errors.Wrapf(ErrSerialization, "column %q: %v", cv.Column, err)
		}
		vocabs[i] = v
	}

	return vocabs, nil
}

var _ Step = (*OrdinalEncoder)(nil)
