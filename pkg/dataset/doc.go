// Package dataset provides the in-memory tabular structure consumed and produced by
// transform steps.
//
// A Dataset is an ordered collection of uniquely named columns of equal length. Each
// column is either numeric (float64 values, NaN marks a missing value) or categorical
// (string values). Datasets and columns are immutable: every operation that changes the
// shape of a dataset returns a new one and leaves the receiver untouched.
//
// ReadCSV, WriteCSV and FromDataFrame adapt gota dataframes.
package dataset
