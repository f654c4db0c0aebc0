package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-client/domain"
)

func sampleGraph() *domain.GraphData {
	return &domain.GraphData{
		Nodes: []domain.GraphNode{
			{ID: "q1", Type: domain.NodeTypeQuestion, Data: domain.GraphNodeData{Label: "I finish what I start", Answer: "Agree"}},
			{ID: "cat-1", Type: domain.NodeTypeCategory, Data: domain.GraphNodeData{Label: "Ownership"}},
			{ID: "q2", Type: domain.NodeTypeQuestion, Data: domain.GraphNodeData{Label: "I abandon hard tasks", Answer: "Agree"}},
		},
		Edges: []domain.GraphEdge{
			{
				ID: "e1", Source: "q1", Target: "q2", Type: domain.EdgeTypeConsistency,
				Data: domain.GraphEdgeData{IsConsistent: false, Explanation: "Finishing and abandoning conflict"},
			},
		},
	}
}

func TestGraphView_EmptySnapshotShowsPlaceholder(t *testing.T) {
	v := NewGraphView()
	var buf bytes.Buffer

	v.Render(&buf)
	assert.Contains(t, buf.String(), "No questions yet")

	v.SetData(&domain.GraphData{})
	buf.Reset()
	v.Render(&buf)
	assert.Contains(t, buf.String(), "No questions yet")
}

func TestGraphView_CategoriesRenderBeforeQuestions(t *testing.T) {
	v := NewGraphView()
	v.SetData(sampleGraph())
	var buf bytes.Buffer

	v.Render(&buf)
	out := buf.String()

	category := strings.Index(out, "Ownership")
	question := strings.Index(out, "I finish what I start")
	require.GreaterOrEqual(t, category, 0)
	require.GreaterOrEqual(t, question, 0)
	assert.Less(t, category, question)
}

func TestGraphView_InconsistentEdgeIsDashedWithExplanation(t *testing.T) {
	v := NewGraphView()
	v.SetData(sampleGraph())
	var buf bytes.Buffer

	v.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "─ ─ ─")
	assert.Contains(t, out, "Finishing and abandoning conflict")
}

func TestGraphView_ConsistentEdgeIsSolid(t *testing.T) {
	data := sampleGraph()
	data.Edges[0].Data = domain.GraphEdgeData{IsConsistent: true}
	v := NewGraphView()
	v.SetData(data)
	var buf bytes.Buffer

	v.Render(&buf)

	assert.Contains(t, buf.String(), "─────")
	assert.NotContains(t, buf.String(), "─ ─ ─")
}

func TestGraphView_HeaderPrintsOncePerSnapshot(t *testing.T) {
	v := NewGraphView()
	v.SetData(sampleGraph())
	var buf bytes.Buffer

	v.Render(&buf)
	first := buf.String()
	buf.Reset()
	v.Render(&buf)
	second := buf.String()

	assert.Contains(t, first, "Consistency graph")
	assert.NotContains(t, second, "Consistency graph")

	// Replacing the snapshot resets the full layout.
	v.SetData(sampleGraph())
	buf.Reset()
	v.Render(&buf)
	assert.Contains(t, buf.String(), "Consistency graph")
}

func TestGraphView_SkipsUnknownTypes(t *testing.T) {
	data := sampleGraph()
	data.Nodes = append(data.Nodes, domain.GraphNode{
		ID: "x1", Type: "hologram", Data: domain.GraphNodeData{Label: "unknown node"},
	})
	data.Edges = append(data.Edges, domain.GraphEdge{
		ID: "e2", Source: "q1", Target: "x1", Type: "teleport",
	})
	v := NewGraphView()
	v.SetData(data)
	var buf bytes.Buffer

	assert.NotPanics(t, func() { v.Render(&buf) })
	assert.NotContains(t, buf.String(), "unknown node")
}

func TestGraphView_NodeAtMatchesRenderedOrdinals(t *testing.T) {
	v := NewGraphView()
	v.SetData(sampleGraph())

	// Ordinal 1 is the category, 2 and 3 the questions in snapshot order.
	first, ok := v.NodeAt(1)
	require.True(t, ok)
	assert.Equal(t, "cat-1", first.ID)
	assert.Equal(t, domain.NodeTypeCategory, first.Type)

	second, ok := v.NodeAt(2)
	require.True(t, ok)
	assert.Equal(t, "q1", second.ID)

	third, ok := v.NodeAt(3)
	require.True(t, ok)
	assert.Equal(t, "q2", third.ID)

	_, ok = v.NodeAt(0)
	assert.False(t, ok)
	_, ok = v.NodeAt(4)
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	got := truncate(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
