package drawer

import (
	"os"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-preprocess/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	dotFileName string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	return &DOTDrawer{
		dotFileName: dotFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// RemoveLink removes a link between parent and children steps.
func (d *DOTDrawer) RemoveLink(parentName, childrenName string) error {
	err := d.graph.RemoveEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to remove edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = WriteDOT(d.graph, file, GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return nil
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, totalTime time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes["xlabel"] = totalTime.String()

	return nil
}

const maxRGB = 240

// AddMeasure colours every step from blue to red by its average transform duration and
// labels it with its timings.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	var minValue, maxValue time.Duration

	first := true
	for _, mt := range metrics {
		avg := mt.AVGTransformDuration()
		if avg == 0 {
			continue
		}

		if first || avg < minValue {
			minValue = avg
		}
		if first || avg > maxValue {
			maxValue = avg
		}
		first = false
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := d.updateMetric(name, metrics[name], minValue, maxValue)
		if err != nil {
			return errors.Wrapf(err, "unable to update %s metrics", name)
		}
	}

	return nil
}

func (d *DOTDrawer) updateMetric(name string, mt measure.Metric, minValue, maxValue time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(name)
	if errors.Is(err, graph.ErrVertexNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "unable to get vertex properties")
	}

	if total := mt.GetTotalDuration(); total > 0 {
		properties.Attributes["xlabel"] = "total: " + total.String()

		return nil
	}

	avg := mt.AVGTransformDuration()
	if avg == 0 {
		return nil
	}

	properties.Attributes["xlabel"] = "fit: " + mt.AVGFitDuration().String() + ", transform: " + avg.String()

	colour, err := heatColour(avg, minValue, maxValue)
	if err != nil {
		return err
	}

	properties.Attributes["color"] = colour

	return nil
}

func heatColour(curr, minValue, maxValue time.Duration) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(curr-minValue) / float64(maxValue-minValue)
	}

	red := maxRGB * fraction
	blue := maxRGB - red

	colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

var _ Drawer = (*DOTDrawer)(nil)
