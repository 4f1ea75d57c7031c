// Package model provides the data structures shared by the pipeline and its options.
// It describes the steps of a pipeline and the runs executed on it, and defines the
// hooks a pipeline option implements.
package model
