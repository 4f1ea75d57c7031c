package transform

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Ordering decides the rank of labels in a learned vocabulary.
type Ordering string

const (
	// FirstSeen ranks labels by their first appearance, top to bottom.
	FirstSeen Ordering = "first_seen"
	// Lexical ranks labels in byte-wise sorted order.
	Lexical Ordering = "lexical"
)

func (o Ordering) validate() error {
	switch o {
	case "", FirstSeen, Lexical:
		return nil
	default:
		return errors.Wrapf(ErrInvalidOption, "ordering %q", string(o))
	}
}

// Vocabulary is an ordered list of distinct category labels.
type Vocabulary struct {
	labels []string
	ranks  map[string]int
}

// NewVocabulary creates a vocabulary where each label ranks at its position.
func NewVocabulary(labels []string) (*Vocabulary, error) {
	v := &Vocabulary{
		labels: make([]string, len(labels)),
		ranks:  make(map[string]int, len(labels)),
	}

	for i, label := range labels {
		if _, ok := v.ranks[label]; ok {
			return nil, errors.Wrapf(ErrDuplicateLabel, "%q", label)
		}
		v.ranks[label] = i
		v.labels[i] = label
	}

	return v, nil
}

// learnVocabulary derives a vocabulary from observed labels.
func learnVocabulary(values []string, ordering Ordering) *Vocabulary {
	v := &Vocabulary{ranks: make(map[string]int)}

	for _, value := range values {
		if _, ok := v.ranks[value]; ok {
			continue
		}
		v.ranks[value] = len(v.labels)
		v.labels = append(v.labels, value)
	}

	if ordering == Lexical {
		sort.Strings(v.labels)
		for i, label := range v.labels {
			v.ranks[label] = i
		}
	}

	return v
}

// Labels returns the labels in rank order.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)

	return out
}

// Rank returns the rank of a label.
func (v *Vocabulary) Rank(label string) (int, bool) {
	r, ok := v.ranks[label]

	return r, ok
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int { return len(v.labels) }

// ColumnVocabulary is the persisted vocabulary of one input column.
type ColumnVocabulary struct {
	Column string   `msgpack:"column"`
	Labels []string `msgpack:"labels"`
}

// VocabularyState is the fitted state of the encoders.
type VocabularyState struct {
	Vocabularies []ColumnVocabulary `msgpack:"vocabularies"`
}

// Vocabulary returns the vocabulary learned for an input column.
func (s *VocabularyState) Vocabulary(column string) (*Vocabulary, bool) {
	for _, cv := range s.Vocabularies {
		if cv.Column == column {
			v, err := NewVocabulary(cv.Labels)
			if err != nil {
				return nil, false
			}

			return v, true
		}
	}

	return nil, false
}

// Categories maps an input column to its explicit vocabulary. It encodes with sorted
// keys so equal configurations give equal bytes.
type Categories map[string][]string

// EncodeMsgpack implements msgpack.CustomEncoder.
func (c Categories) EncodeMsgpack(enc *msgpack.Encoder) error {
	if c == nil {
		return enc.EncodeNil()
	}

	err := enc.EncodeMapLen(len(c))
	if err != nil {
		return err
	}

	columns := make([]string, 0, len(c))
	for column := range c {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		err = enc.EncodeString(column)
		if err != nil {
			return err
		}

		err = enc.Encode(c[column])
		if err != nil {
			return err
		}
	}

	return nil
}

// explicitVocabularies validates caller supplied vocabularies against the input columns.
func explicitVocabularies(spec ColumnSpec, categories Categories) (map[string]*Vocabulary, error) {
	out := make(map[string]*Vocabulary, len(categories))

	for column, labels := range categories {
		if !spec.IsInput(column) {
			return nil, errors.Wrapf(ErrInvalidOption, "categories given for %q which is not an input column", column)
		}

		v, err := NewVocabulary(labels)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", column)
		}
		out[column] = v
	}

	return out, nil
}

func cloneCategories(categories Categories) Categories {
	if categories == nil {
		return nil
	}

	out := make(Categories, len(categories))
	for k, v := range categories {
		out[k] = append([]string(nil), v...)
	}

	return out
}
