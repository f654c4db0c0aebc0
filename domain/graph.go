package domain

// Node type tags. The set is closed: rendering dispatches on these two
// values and nothing else.
const (
	NodeTypeCategory = "category"
	NodeTypeQuestion = "question"
)

// EdgeTypeConsistency is the only edge kind the graph carries.
const EdgeTypeConsistency = "consistency"

// Position is an externally assigned layout coordinate. The client
// treats it as opaque and never recomputes layout.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphNodeData carries the display payload of a node. Category nodes
// use Label and Color; question nodes additionally carry the full text,
// answer and category.
type GraphNodeData struct {
	Label    string `json:"label"`
	Color    string `json:"color,omitempty"`
	FullText string `json:"full_text,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Category string `json:"category,omitempty"`
}

// GraphNode is one vertex of the rendered graph.
type GraphNode struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Position Position      `json:"position"`
	Data     GraphNodeData `json:"data"`
}

// GraphEdgeData carries the judgment behind a consistency edge.
type GraphEdgeData struct {
	IsConsistent bool   `json:"is_consistent"`
	Explanation  string `json:"explanation"`
}

// GraphEdge connects two question nodes that the backend has judged.
// Style and dash pattern are derived from IsConsistent at render time.
type GraphEdge struct {
	ID     string            `json:"id"`
	Source string            `json:"source"`
	Target string            `json:"target"`
	Type   string            `json:"type"`
	Style  map[string]string `json:"style,omitempty"`
	Data   GraphEdgeData     `json:"data"`
}

// GraphData is the single authoritative snapshot the view renders. It is
// wholesale-replaced on every cache refresh; individual nodes and edges
// are never patched in place.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// IsEmpty reports whether the snapshot holds nothing to render.
func (g *GraphData) IsEmpty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0)
}

// SelectedNode is the transient UI-only projection of whichever node was
// last clicked. It is cleared on delete or explicit close and never
// persisted.
type SelectedNode struct {
	ID   string
	Data GraphNodeData
	Type string
}
