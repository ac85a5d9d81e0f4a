// Package visualize renders the stage graph of a pipeline scenario as a diagram.
package visualize

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/l7mp/rcollections/pkg/pipeline"
)

// Graph represents the visualization graph of a scenario.
type Graph struct {
	Name    string
	Initial int
	Stages  []StageNode
}

// StageNode represents a single stage in the graph.
type StageNode struct {
	Name  string
	Label string
	// Ordered is true if the stage emits list events.
	Ordered bool
}

// BuildGraph constructs a visualization graph from a validated scenario.
func BuildGraph(s *pipeline.Scenario) *Graph {
	g := &Graph{
		Name:    s.Name,
		Initial: len(s.Initial),
		Stages:  make([]StageNode, 0, len(s.Pipeline)),
	}

	ordered := true
	for i := range s.Pipeline {
		stage := &s.Pipeline[i]
		ordered = stage.Ordered(ordered)
		g.Stages = append(g.Stages, StageNode{
			Name:    stage.Name,
			Label:   stage.Label(),
			Ordered: ordered,
		})
	}

	return g
}

// Ordered reports whether the output of the graph is a list.
func (g *Graph) Ordered() bool {
	if len(g.Stages) == 0 {
		return true
	}
	return g.Stages[len(g.Stages)-1].Ordered
}

func streamLabel(ordered bool) string {
	if ordered {
		return "list"
	}
	return "collection"
}

type nodeKind int

const (
	sourceNode nodeKind = iota
	stageNode
	outputNode
)

// renderer holds the format specific attributes. Graphviz and Mermaid interpret the "shape" and
// "style" attributes differently, so each output format brings its own.
type renderer struct {
	node  func(n dot.Node, kind nodeKind)
	edge  func(e dot.Edge, kind nodeKind)
	label func(s StageNode) string
}

// build lays out the source, one node per stage and the output, with every edge labelled by the
// kind of stream flowing along it.
func (r renderer) build(g *Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("label", g.Name)

	prev := graph.Node("source").Attr("label", fmt.Sprintf("source (%d items)", g.Initial))
	r.node(prev, sourceNode)
	ordered := true

	for _, stage := range g.Stages {
		node := graph.Node(stage.Name).Attr("label", r.label(stage))
		r.node(node, stageNode)
		r.edge(graph.Edge(prev, node).Attr("label", streamLabel(ordered)), stageNode)
		prev, ordered = node, stage.Ordered
	}

	output := graph.Node("output").Attr("label", "output")
	r.node(output, outputNode)
	r.edge(graph.Edge(prev, output).Attr("label", streamLabel(ordered)), outputNode)

	return graph
}
