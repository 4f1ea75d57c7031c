// Package pipeline composes preprocessing steps into a pipeline.
//
// A pipeline is an ordered list of named steps from the transform package. Fit runs every
// step in order: the step learns its parameters from the dataset it receives, then
// transforms it, and the result feeds the next step. Transform chains the fitted steps in
// the same order without learning anything. Steps are never reordered; a step can rely on
// the columns written by the steps declared before it.
//
// Errors returned by a step are annotated with a StepError naming the step and the
// operation. The underlying kind, such as transform.ErrNotFitted or
// transform.ErrUnknownCategory, stays reachable with errors.Is.
//
// A fitted pipeline is persisted with MarshalBinary or Save and restored with Unmarshal or
// Load. The blob is a self describing msgpack document holding, for every step, its name,
// its kind, its configuration and its fitted state. A restored pipeline transforms any
// dataset exactly like the original one.
//
// Pipeline options implement model.PipelineOption and are notified when steps are added,
// fitted and run. The measure, drawer and logging packages provide options to time steps,
// draw the step chain and log runs.
package pipeline
