package transform

import (
	"github.com/pkg/errors"
)

// ColumnSpec declares which input columns a step reads and which output columns it
// writes. Outputs pair with inputs by position. Empty Outputs means the step overwrites
// its inputs in place.
type ColumnSpec struct {
	Inputs  []string `msgpack:"inputs" yaml:"inputs"`
	Outputs []string `msgpack:"outputs" yaml:"outputs"`
}

// Validate checks the declaration.
func (c ColumnSpec) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputColumns
	}

	if len(c.Outputs) > 0 && len(c.Outputs) != len(c.Inputs) {
		return errors.Wrapf(ErrColumnCountMismatch, "%d inputs, %d outputs", len(c.Inputs), len(c.Outputs))
	}

	err := unique("input", c.Inputs)
	if err != nil {
		return err
	}

	return unique("output", c.Outputs)
}

// Output returns the output column paired with the input at position idx.
func (c ColumnSpec) Output(idx int) string {
	if len(c.Outputs) == 0 {
		return c.Inputs[idx]
	}

	return c.Outputs[idx]
}

// ResolvedOutputs returns the output column names, defaulting to the inputs.
func (c ColumnSpec) ResolvedOutputs() []string {
	out := make([]string, len(c.Inputs))
	for i := range c.Inputs {
		out[i] = c.Output(i)
	}

	return out
}

// IsInput reports whether name is one of the input columns.
func (c ColumnSpec) IsInput(name string) bool {
	for _, in := range c.Inputs {
		if in == name {
			return true
		}
	}

	return false
}

func (c ColumnSpec) clone() ColumnSpec {
	out := ColumnSpec{Inputs: append([]string(nil), c.Inputs...)}
	if len(c.Outputs) > 0 {
		out.Outputs = append([]string(nil), c.Outputs...)
	}

	return out
}

func unique(what string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return errors.Wrapf(ErrInvalidOption, "empty %s column name", what)
		}

		if _, ok := seen[name]; ok {
			return errors.Wrapf(ErrDuplicateColumn, "%s %q", what, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}
