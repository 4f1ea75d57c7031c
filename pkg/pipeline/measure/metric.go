package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu               *sync.Mutex
	EndDuration      time.Duration
	fitElapsed       time.Duration
	fitTotal         int64
	transformElapsed time.Duration
	transformTotal   int64
	rows             int64
}

func (mt *DefaultMetric) AddFitDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.fitTotal++
	mt.fitElapsed += elapsed
}

func (mt *DefaultMetric) AddTransformDuration(elapsed time.Duration, rows int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.transformTotal++
	mt.transformElapsed += elapsed
	mt.rows += int64(rows)
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) AVGFitDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return average(mt.fitElapsed, mt.fitTotal)
}

func (mt *DefaultMetric) AVGTransformDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return average(mt.transformElapsed, mt.transformTotal)
}

func (mt *DefaultMetric) TransformCount() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.transformTotal
}

func (mt *DefaultMetric) TransformedRows() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.rows
}

func average(elapsed time.Duration, total int64) time.Duration {
	if total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(elapsed) / float64(total)))
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
