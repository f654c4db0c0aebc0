// Package term renders the client for a terminal: the graph view, the
// quiz screen and the side panels, plus the interactive loop that turns
// key input into typed events.
package term

import (
	"fmt"
	"io"
	"sync"

	"mirror-client/domain"
)

// ANSI styles used by the renderers.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGrey   = "\x1b[90m"
)

// answerStyles keys the badge style by the literal answer string.
// Unknown or missing answers fall back to the neutral style.
var answerStyles = map[string]string{
	string(domain.StronglyDisagree): ansiRed,
	string(domain.Disagree):         ansiYellow,
	string(domain.Neutral):          ansiGrey,
	string(domain.Agree):            ansiGreen,
	string(domain.StronglyAgree):    ansiGreen + ansiBold,
}

func answerStyle(answer string) string {
	if s, ok := answerStyles[answer]; ok {
		return s
	}
	return ansiGrey
}

// nodeRenderer draws one node line. The ordinal is the number the user
// types to select the node.
type nodeRenderer func(w io.Writer, ordinal int, node domain.GraphNode)

// edgeRenderer draws one edge line. labels resolves node ids to display
// labels.
type edgeRenderer func(w io.Writer, edge domain.GraphEdge, labels map[string]string)

// The render strategy tables. The node and edge kinds form a closed
// set; anything outside it is skipped rather than guessed at.
var (
	nodeRenderers = map[string]nodeRenderer{
		domain.NodeTypeCategory: renderCategoryNode,
		domain.NodeTypeQuestion: renderQuestionNode,
	}
	edgeRenderers = map[string]edgeRenderer{
		domain.EdgeTypeConsistency: renderConsistencyEdge,
	}
)

func renderCategoryNode(w io.Writer, ordinal int, node domain.GraphNode) {
	fmt.Fprintf(w, " %2d. %s(%s)%s\n", ordinal, ansiCyan+ansiBold, node.Data.Label, ansiReset)
}

func renderQuestionNode(w io.Writer, ordinal int, node domain.GraphNode) {
	badge := answerStyle(node.Data.Answer)
	answer := node.Data.Answer
	if answer == "" {
		answer = "N/A"
	}
	fmt.Fprintf(w, " %2d. [%s] %s%s%s\n",
		ordinal,
		truncate(node.Data.Label, 56),
		badge, answer, ansiReset,
	)
}

func renderConsistencyEdge(w io.Writer, edge domain.GraphEdge, labels map[string]string) {
	source := labels[edge.Source]
	target := labels[edge.Target]
	if edge.Data.IsConsistent {
		fmt.Fprintf(w, "  %s%s ───── %s%s\n",
			ansiGreen, truncate(source, 28), truncate(target, 28), ansiReset)
	} else {
		fmt.Fprintf(w, "  %s%s ─ ─ ─ %s%s\n",
			ansiRed, truncate(source, 28), truncate(target, 28), ansiReset)
	}
	if edge.Data.Explanation != "" {
		fmt.Fprintf(w, "      %s%s%s\n", ansiDim, truncate(edge.Data.Explanation, 72), ansiReset)
	}
}

// truncate shortens a string to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// GraphView renders GraphData exactly as supplied and maps a typed node
// number back to the node. It holds no domain state beyond the snapshot
// it was last given and never calls the gateway.
type GraphView struct {
	mu     sync.Mutex
	data   *domain.GraphData
	order  []domain.GraphNode
	fitted bool
}

// NewGraphView creates an empty view.
func NewGraphView() *GraphView {
	return &GraphView{}
}

// SetData replaces the snapshot. The fit-once flag resets so the next
// Render lays out the whole graph again; after that, renders are
// incremental until the next replacement.
func (v *GraphView) SetData(data *domain.GraphData) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.data = data
	v.fitted = false
	v.order = v.order[:0]
	if data == nil {
		return
	}
	// Categories first, then questions, matching the visual grouping.
	for _, n := range data.Nodes {
		if n.Type == domain.NodeTypeCategory {
			v.order = append(v.order, n)
		}
	}
	for _, n := range data.Nodes {
		if n.Type != domain.NodeTypeCategory {
			v.order = append(v.order, n)
		}
	}
}

// Render writes the graph. The full layout (legend included) is printed
// once per snapshot replacement; later calls print only the node and
// edge lists.
func (v *GraphView) Render(w io.Writer) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.data.IsEmpty() {
		fmt.Fprintln(w, "No questions yet. Press a to add one.")
		return
	}

	if !v.fitted {
		fmt.Fprintf(w, "%sConsistency graph%s  %s(solid=consistent, dashed=inconsistent)%s\n",
			ansiBold, ansiReset, ansiDim, ansiReset)
		v.fitted = true
	}

	labels := make(map[string]string, len(v.data.Nodes))
	for _, n := range v.data.Nodes {
		labels[n.ID] = n.Data.Label
	}

	for i, node := range v.order {
		render, ok := nodeRenderers[node.Type]
		if !ok {
			continue
		}
		render(w, i+1, node)
	}

	if len(v.data.Edges) > 0 {
		fmt.Fprintln(w)
		for _, edge := range v.data.Edges {
			render, ok := edgeRenderers[edge.Type]
			if !ok {
				continue
			}
			render(w, edge, labels)
		}
	}
}

// NodeAt resolves a typed ordinal (1-based, as rendered) to a selection
// payload. This is the terminal analog of a node click.
func (v *GraphView) NodeAt(ordinal int) (domain.SelectedNode, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ordinal < 1 || ordinal > len(v.order) {
		return domain.SelectedNode{}, false
	}
	n := v.order[ordinal-1]
	return domain.SelectedNode{ID: n.ID, Data: n.Data, Type: n.Type}, true
}
