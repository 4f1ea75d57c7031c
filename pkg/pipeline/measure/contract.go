package measure

import "time"

// Measure collects one Metric per pipeline step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the timings of one step.
type Metric interface {
	AddFitDuration(elapsed time.Duration)
	AddTransformDuration(elapsed time.Duration, rows int)
	AVGFitDuration() time.Duration
	AVGTransformDuration() time.Duration
	TransformCount() int64
	TransformedRows() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
