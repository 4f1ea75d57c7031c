package dataset

import (
	"math"
	"strconv"
)

// Kind is the semantic type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Column is a named, typed sequence of values.
type Column struct {
	name    string
	kind    Kind
	floats  []float64
	strings []string
}

// NewNumeric creates a numeric column. The values are copied.
func NewNumeric(name string, values []float64) *Column {
	cp := make([]float64, len(values))
	copy(cp, values)

	return &Column{name: name, kind: Numeric, floats: cp}
}

// NewCategorical creates a categorical column. The values are copied.
func NewCategorical(name string, values []string) *Column {
	cp := make([]string, len(values))
	copy(cp, values)

	return &Column{name: name, kind: Categorical, strings: cp}
}

func (c *Column) Name() string { return c.name }

func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.floats)
	}

	return len(c.strings)
}

// Floats returns the values of a numeric column. The slice must not be modified.
func (c *Column) Floats() ([]float64, error) {
	if c.kind != Numeric {
		return nil, ErrColumnKind
	}

	return c.floats, nil
}

// Strings returns the values of a categorical column. The slice must not be modified.
func (c *Column) Strings() ([]string, error) {
	if c.kind != Categorical {
		return nil, ErrColumnKind
	}

	return c.strings, nil
}

// Labels returns every value as a string label. Numeric values use the shortest
// representation that round trips, NaN becomes "NaN".
func (c *Column) Labels() []string {
	if c.kind == Categorical {
		out := make([]string, len(c.strings))
		copy(out, c.strings)

		return out
	}

	out := make([]string, len(c.floats))
	for i, v := range c.floats {
		out[i] = FormatFloat(v)
	}

	return out
}

// Rename returns a copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, kind: c.kind, floats: c.floats, strings: c.strings}
}

// Equal reports whether both columns hold the same name, kind and values.
// Floats are compared bit for bit so NaN equals NaN.
func (c *Column) Equal(other *Column) bool {
	if c == nil || other == nil {
		return c == other
	}

	if c.name != other.name || c.kind != other.kind || c.Len() != other.Len() {
		return false
	}

	if c.kind == Categorical {
		for i := range c.strings {
			if c.strings[i] != other.strings[i] {
				return false
			}
		}

		return true
	}

	for i := range c.floats {
		if math.Float64bits(c.floats[i]) != math.Float64bits(other.floats[i]) {
			return false
		}
	}

	return true
}

// FormatFloat formats a numeric value the way encoders label numeric categories.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
