package drawer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/pipeline/drawer"
	"github.com/askiada/go-preprocess/pkg/pipeline/measure"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

func TestWriteDOT(t *testing.T) {
	t.Parallel()

	g := graph.New(graph.StringHash, graph.Directed())
	require.NoError(t, g.AddVertex("b", graph.VertexAttribute("label", `say "hi"`)))
	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeAttribute("label", "step")))

	var buf bytes.Buffer
	require.NoError(t, drawer.WriteDOT(g, &buf, drawer.GraphAttribute("rankdir", "LR")))

	expected := `strict digraph {
	rankdir="LR";
	"a" [ weight=0 ];
	"a" -> "b" [ label="step", weight=0 ];
	"b" [ label="say \"hi\"", weight=0 ];
}
`
	assert.Equal(t, expected, buf.String())

	var again bytes.Buffer
	require.NoError(t, drawer.WriteDOT(g, &again, drawer.GraphAttribute("rankdir", "LR")))
	assert.Equal(t, buf.String(), again.String())
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "steps.dot")
	msr := measure.NewDefaultMeasure()
	measureOpt := measure.PipelineMeasure(msr)
	drawerOpt := drawer.PipelineDrawer(drawer.NewDOTDrawer(file), msr)

	scale := &model.StepInfo{Name: "scale"}
	encode := &model.StepInfo{Name: "encode"}

	for _, opt := range []model.PipelineOption{measureOpt, drawerOpt} {
		require.NoError(t, opt.New())
		require.NoError(t, opt.PrepareStep(model.StartStep, scale))
		require.NoError(t, opt.PrepareStep(scale, encode))
		require.NoError(t, opt.OnStepTransform(scale, 3, time.Millisecond))
		require.NoError(t, opt.OnStepTransform(encode, 3, 3*time.Millisecond))
	}

	run := &model.RunInfo{Duration: 5 * time.Millisecond}
	require.NoError(t, measureOpt.Finish(run))
	require.NoError(t, drawerOpt.Finish(run))
	require.NoError(t, drawerOpt.Finish(run))

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"start" -> "scale"`)
	assert.Contains(t, out, `"scale" -> "encode"`)
	assert.Contains(t, out, `"encode" -> "end"`)
	assert.Contains(t, out, `color="#0000f0"`)
	assert.Contains(t, out, `color="#f00000"`)
	assert.Contains(t, out, `total: 5ms`)

	more := &model.StepInfo{Name: "round"}
	require.NoError(t, drawerOpt.PrepareStep(encode, more))
	require.NoError(t, drawerOpt.Finish(run))

	data, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"round" -> "end"`)
	assert.NotContains(t, string(data), `"encode" -> "end"`)
}
