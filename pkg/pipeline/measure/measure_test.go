package measure_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/pipeline/measure"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	m := measure.NewDefaultMeasure()
	mt := m.AddMetric("scale")
	assert.Same(t, mt, m.AddMetric("scale"))

	assert.Equal(t, time.Duration(0), mt.AVGTransformDuration())

	mt.AddFitDuration(2 * time.Millisecond)
	mt.AddTransformDuration(10*time.Millisecond, 3)
	mt.AddTransformDuration(20*time.Millisecond, 5)

	assert.Equal(t, 2*time.Millisecond, mt.AVGFitDuration())
	assert.Equal(t, 15*time.Millisecond, mt.AVGTransformDuration())
	assert.Equal(t, int64(2), mt.TransformCount())
	assert.Equal(t, int64(8), mt.TransformedRows())

	mt.SetTotalDuration(time.Second)
	assert.Equal(t, time.Second, mt.GetTotalDuration())
	assert.Len(t, m.AllMetrics(), 1)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	m := measure.NewDefaultMeasure()
	opt := measure.PipelineMeasure(m)
	step := &model.StepInfo{Name: "scale"}

	require.NoError(t, opt.New())
	require.NoError(t, opt.PrepareStep(model.StartStep, step))
	require.NoError(t, opt.OnStepFit(step, 3, time.Millisecond))
	require.NoError(t, opt.OnStepTransform(step, 3, 4*time.Millisecond))
	require.NoError(t, opt.Finish(&model.RunInfo{Duration: time.Minute}))

	assert.Len(t, m.AllMetrics(), 3)
	assert.Equal(t, time.Millisecond, m.GetMetric("scale").AVGFitDuration())
	assert.Equal(t, 4*time.Millisecond, m.GetMetric("scale").AVGTransformDuration())
	assert.Equal(t, int64(3), m.GetMetric("scale").TransformedRows())
	assert.Equal(t, time.Minute, m.GetMetric(model.EndStep.Name).GetTotalDuration())
}
