package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mirror-client/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(nil, zap.NewNop()).Handler())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, session string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func addQuestion(t *testing.T, server *httptest.Server, session, text, answer string) domain.AddQuestionResponse {
	t.Helper()
	var resp domain.AddQuestionResponse
	status := doJSON(t, server, http.MethodPost, "/api/questions", session, map[string]string{
		"text":         text,
		"answer":       answer,
		"framework_id": "agency",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp
}

func TestStub_ListFrameworks(t *testing.T) {
	server := newTestServer(t)

	var list domain.FrameworkList
	status := doJSON(t, server, http.MethodGet, "/api/frameworks", "", nil, &list)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Frameworks, 2)
	assert.Equal(t, "agency", list.Frameworks[0].ID)
	assert.NotEmpty(t, list.Frameworks[0].Principles)
	assert.Equal(t, list.Frameworks[0].PrincipleCount, len(list.Frameworks[0].Principles))
}

func TestStub_PromptsOrderedAndMissingFrameworkIs404(t *testing.T) {
	server := newTestServer(t)

	var prompts []string
	status := doJSON(t, server, http.MethodGet, "/api/frameworks/stoic/prompts", "", nil, &prompts)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, prompts)
	assert.Equal(t, "I only worry about things I can influence", prompts[0])

	status = doJSON(t, server, http.MethodGet, "/api/frameworks/nope/prompts", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStub_FirstQuestionHasEmptyBatch(t *testing.T) {
	server := newTestServer(t)

	resp := addQuestion(t, server, "s1", "I finish what I start", "Agree")

	assert.NotEmpty(t, resp.Question.ID)
	assert.NotEmpty(t, resp.Question.Category)
	assert.Empty(t, resp.Consistency)
}

func TestStub_OppositeAnswersInSameCategoryConflict(t *testing.T) {
	server := newTestServer(t)

	// Identical text hashes to the same category, so only polarity decides.
	first := addQuestion(t, server, "s1", "I keep my promises", "Strongly Agree")
	second := addQuestion(t, server, "s1", "I keep my promises", "Strongly Disagree")

	require.Len(t, second.Consistency, 1)
	result := second.Consistency[0]
	assert.False(t, result.IsConsistent)
	assert.Equal(t, second.Question.ID, result.SourceID)
	assert.Equal(t, first.Question.ID, result.TargetID)
	assert.NotEmpty(t, result.Explanation)
	assert.Equal(t, "I keep my promises", result.TargetText)
}

func TestStub_AddQuestionValidation(t *testing.T) {
	server := newTestServer(t)

	status := doJSON(t, server, http.MethodPost, "/api/questions", "s1", map[string]string{
		"text": "", "answer": "Agree", "framework_id": "agency",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = doJSON(t, server, http.MethodPost, "/api/questions", "s1", map[string]string{
		"text": "valid text", "answer": "Kind of", "framework_id": "agency",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestStub_SessionsAreIsolated(t *testing.T) {
	server := newTestServer(t)

	addQuestion(t, server, "alice", "I finish what I start", "Agree")

	var mine []domain.Question
	status := doJSON(t, server, http.MethodGet, "/api/questions", "bob", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, mine)

	status = doJSON(t, server, http.MethodGet, "/api/questions", "alice", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, mine, 1)
}

func TestStub_DeleteRemovesQuestionAndItsEdges(t *testing.T) {
	server := newTestServer(t)

	addQuestion(t, server, "s1", "I keep my promises", "Agree")
	second := addQuestion(t, server, "s1", "I keep my promises", "Disagree")
	require.Len(t, second.Consistency, 1)

	status := doJSON(t, server, http.MethodDelete,
		fmt.Sprintf("/api/questions/%s", second.Question.ID), "s1", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var graph domain.GraphData
	doJSON(t, server, http.MethodGet, "/api/graph", "s1", nil, &graph)
	assert.Empty(t, graph.Edges, "judgments touching a deleted question must go with it")

	status = doJSON(t, server, http.MethodDelete, "/api/questions/unknown", "s1", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStub_GraphShape(t *testing.T) {
	server := newTestServer(t)

	addQuestion(t, server, "s1", "I keep my promises", "Agree")
	addQuestion(t, server, "s1", "I keep my promises", "Disagree")

	var graph domain.GraphData
	status := doJSON(t, server, http.MethodGet, "/api/graph", "s1", nil, &graph)
	require.Equal(t, http.StatusOK, status)

	var categories, questions int
	for _, n := range graph.Nodes {
		switch n.Type {
		case domain.NodeTypeCategory:
			categories++
			assert.NotEmpty(t, n.Data.Color)
		case domain.NodeTypeQuestion:
			questions++
			assert.NotEmpty(t, n.Data.Answer)
			assert.NotZero(t, n.Position.Y, "question nodes sit below the category row")
		}
	}
	assert.Equal(t, 1, categories)
	assert.Equal(t, 2, questions)

	require.Len(t, graph.Edges, 1)
	edge := graph.Edges[0]
	assert.Equal(t, domain.EdgeTypeConsistency, edge.Type)
	assert.False(t, edge.Data.IsConsistent)
	assert.Equal(t, "6 4", edge.Style["strokeDasharray"], "inconsistent edges render dashed")
}

func TestStub_EmptySessionGraphIsEmptyNotNull(t *testing.T) {
	server := newTestServer(t)

	var graph domain.GraphData
	status := doJSON(t, server, http.MethodGet, "/api/graph", "fresh", nil, &graph)

	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, graph.Nodes)
	assert.NotNil(t, graph.Edges)
	assert.True(t, graph.IsEmpty())
}

func TestStub_CheckEndpoint(t *testing.T) {
	server := newTestServer(t)

	var resp domain.CheckResponse
	status := doJSON(t, server, http.MethodPost, "/api/check", "", domain.CheckRequest{
		QuestionText:   "I save money every month",
		QuestionAnswer: "Strongly Agree",
		CompareText:    "I spend my whole paycheck",
		CompareAnswer:  "Strongly Agree",
	}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, resp.Explanation)
}

func TestStub_Health(t *testing.T) {
	server := newTestServer(t)
	status := doJSON(t, server, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}
