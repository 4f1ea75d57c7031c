// Package transform provides the fit/transform steps of a preprocessing pipeline.
//
// Every step declares the columns it reads and writes with a ColumnSpec, learns its
// parameters from a training dataset in Fit and applies a deterministic per-row mapping
// in Transform. Learned parameters live in an immutable state value owned by the step;
// fitting again replaces that value instead of changing it.
//
// The available steps are:
//
//   - MinMaxScaler: rescales numeric columns into [0, 1] using the observed range.
//   - OrdinalEncoder: replaces categories by their rank in a vocabulary.
//   - OneHotEncoder: expands categories into one indicator column per label.
//   - Rounder: rounds numeric columns to a number of decimal places.
//
// Vocabularies are either given explicitly, which fixes the rank of every label, or
// learned during Fit. Learned vocabularies follow the configured Ordering, first-seen
// order by default, so the same data always yields the same encoding.
//
// Columns of a step are independent from each other. StepConcurrency lets a step process
// them on several goroutines; results are always assembled in column order so the output
// does not depend on scheduling.
package transform
