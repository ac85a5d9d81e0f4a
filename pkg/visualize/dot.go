package visualize

import (
	"fmt"

	"github.com/emicklei/dot"
)

// DotGenerator renders a scenario graph as a Graphviz digraph.
type DotGenerator struct{}

// Generate returns the DOT source of the graph.
func (d *DotGenerator) Generate(g *Graph) string {
	return BuildDotGraph(g).String()
}

var graphviz = renderer{
	node: func(n dot.Node, kind nodeKind) {
		n.Attr("fontname", "helvetica")
		switch kind {
		case sourceNode:
			n.Attr("shape", "ellipse").Attr("style", "filled").Attr("fillcolor", "lightgreen")
		case stageNode:
			n.Attr("shape", "box").Attr("style", "filled,rounded").Attr("fillcolor", "lightblue").
				Attr("color", "darkblue").Attr("penwidth", "2")
		case outputNode:
			n.Attr("shape", "box").Attr("style", "filled,rounded").Attr("fillcolor", "lightcyan")
		}
	},
	edge: func(e dot.Edge, kind nodeKind) {
		e.Attr("fontname", "helvetica").Attr("fontsize", "10")
		if kind == outputNode {
			e.Attr("style", "dashed").Attr("color", "blue")
		}
	},
	label: func(s StageNode) string { return fmt.Sprintf("%s\n%s", s.Name, s.Label) },
}

// BuildDotGraph creates the Graphviz graph of a scenario, laid out left to right.
func BuildDotGraph(g *Graph) *dot.Graph {
	graph := graphviz.build(g)
	graph.Attr("rankdir", "LR")
	graph.Attr("labelloc", "t")
	graph.Attr("fontsize", "16")
	return graph
}
