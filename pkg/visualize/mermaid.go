package visualize

import (
	"fmt"

	"github.com/emicklei/dot"
)

// MermaidGenerator renders a scenario graph as a Mermaid flowchart wrapped in a markdown code
// block.
type MermaidGenerator struct{}

// Generate returns the flowchart of the graph, laid out left to right.
func (m *MermaidGenerator) Generate(g *Graph) string {
	chart := dot.MermaidFlowchart(BuildMermaidGraph(g), dot.MermaidLeftToRight)
	return fmt.Sprintf("```mermaid\n%s\n```\n", chart)
}

// Mermaid takes the shape as one of the dot.MermaidShape values and the style as CSS.
var mermaid = renderer{
	node: func(n dot.Node, kind nodeKind) {
		switch kind {
		case sourceNode:
			n.Attr("shape", dot.MermaidShapeCylinder).Attr("style", "fill:#90ee90")
		case stageNode:
			n.Attr("shape", dot.MermaidShapeRound).Attr("style", "fill:#add8e6,stroke:#00008b,stroke-width:2px")
		case outputNode:
			n.Attr("shape", dot.MermaidShapeStadium).Attr("style", "fill:#e0ffff")
		}
	},
	edge:  func(dot.Edge, nodeKind) {},
	label: func(s StageNode) string { return fmt.Sprintf("%s: %s", s.Name, s.Label) },
}

// BuildMermaidGraph creates the graph rendered by MermaidGenerator.
func BuildMermaidGraph(g *Graph) *dot.Graph {
	return mermaid.build(g)
}
