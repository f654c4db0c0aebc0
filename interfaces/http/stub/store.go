// Package stub is a local development backend that serves the HTTP
// contract the client consumes. It exists so the client can run
// end-to-end without the real judgment service: consistency is decided
// by a trivial answer-polarity heuristic, not the real algorithm.
package stub

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"mirror-client/domain"
)

// categoryColors cycles display colors across principles.
var categoryColors = []string{
	"#3b82f6", "#8b5cf6", "#f59e0b", "#ef4444", "#10b981",
	"#ec4899", "#06b6d4", "#f97316", "#84cc16", "#a855f7",
}

// Store keeps questions and judgments in memory, scoped by session id.
type Store struct {
	frameworks []domain.Framework
	prompts    map[string][]string

	mu        sync.RWMutex
	questions map[string][]domain.Question
	judgments map[string][]domain.ConsistencyResult
}

// NewStore creates a store with the canned demo frameworks.
func NewStore() *Store {
	s := &Store{
		prompts:   make(map[string][]string),
		questions: make(map[string][]domain.Question),
		judgments: make(map[string][]domain.ConsistencyResult),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.frameworks = []domain.Framework{
		{
			ID:          "agency",
			Name:        "Personal Agency",
			Description: "Owning your choices and their consequences",
			Icon:        "🧭",
			Principles:  []string{"Ownership", "Honesty", "Discipline", "Growth"},
		},
		{
			ID:          "stoic",
			Name:        "Stoicism",
			Description: "Focusing on what is within your control",
			Icon:        "🏛️",
			Principles:  []string{"Control", "Acceptance", "Virtue", "Presence"},
		},
	}
	s.prompts["agency"] = []string{
		"I take responsibility for my mistakes",
		"I blame circumstances when things go wrong",
		"I keep the commitments I make to myself",
		"I tell people what they want to hear",
		"I seek out feedback even when it is uncomfortable",
		"I finish what I start",
	}
	s.prompts["stoic"] = []string{
		"I only worry about things I can influence",
		"Outcomes outside my control still upset me for days",
		"I accept setbacks without assigning blame",
		"I act on my principles even when it costs me",
	}
	for i := range s.frameworks {
		s.frameworks[i].PrincipleCount = len(s.prompts[s.frameworks[i].ID])
	}
}

// Frameworks returns the canned framework list.
func (s *Store) Frameworks() []domain.Framework {
	return s.frameworks
}

// Prompts returns the ordered prompt list for a framework.
func (s *Store) Prompts(frameworkID string) ([]string, bool) {
	p, ok := s.prompts[frameworkID]
	return p, ok
}

// polarity collapses a Likert answer to agree/neutral/disagree.
func polarity(answer string) int {
	switch domain.LikertAnswer(answer) {
	case domain.StronglyAgree, domain.Agree:
		return 1
	case domain.StronglyDisagree, domain.Disagree:
		return -1
	default:
		return 0
	}
}

// assignCategory picks a principle deterministically from the text.
func (s *Store) assignCategory(frameworkID, text string) string {
	var principles []string
	for _, fw := range s.frameworks {
		if fw.ID == frameworkID {
			principles = fw.Principles
		}
	}
	if len(principles) == 0 {
		principles = s.frameworks[0].Principles
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return principles[int(h.Sum32())%len(principles)]
}

// AddQuestion stores a question and judges it against all prior
// questions of the same session.
func (s *Store) AddQuestion(sessionID, text, answer, frameworkID string) (domain.Question, []domain.ConsistencyResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := domain.Question{
		ID:        uuid.New().String(),
		Text:      text,
		Answer:    answer,
		Category:  s.assignCategory(frameworkID, text),
		CreatedAt: time.Now().UTC(),
	}

	var results []domain.ConsistencyResult
	for _, prior := range s.questions[sessionID] {
		r := judge(q, prior)
		results = append(results, r)
		s.judgments[sessionID] = append(s.judgments[sessionID], r)
	}

	s.questions[sessionID] = append(s.questions[sessionID], q)
	return q, results
}

// judge is the stand-in heuristic: same category plus opposite answer
// polarity reads as inconsistent.
func judge(q, prior domain.Question) domain.ConsistencyResult {
	consistent := true
	explanation := fmt.Sprintf("%q and %q do not conflict.", q.Text, prior.Text)
	color := "#22c55e"
	if q.Category == prior.Category && polarity(q.Answer)*polarity(prior.Answer) < 0 {
		consistent = false
		explanation = fmt.Sprintf("Answering %q to %q pulls against answering %q to %q.",
			q.Answer, q.Text, prior.Answer, prior.Text)
		color = "#ef4444"
	}
	return domain.ConsistencyResult{
		SourceID:     q.ID,
		TargetID:     prior.ID,
		IsConsistent: consistent,
		Explanation:  explanation,
		Color:        color,
		TargetText:   prior.Text,
		TargetAnswer: prior.Answer,
	}
}

// Questions lists the session's questions.
func (s *Store) Questions(sessionID string) []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.questions[sessionID]))
	copy(out, s.questions[sessionID])
	return out
}

// DeleteQuestion removes a question and every judgment that touches it.
func (s *Store) DeleteQuestion(sessionID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questions[sessionID]
	found := false
	kept := questions[:0]
	for _, q := range questions {
		if q.ID == id {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	s.questions[sessionID] = kept

	if found {
		judgments := s.judgments[sessionID]
		keptJ := judgments[:0]
		for _, j := range judgments {
			if j.SourceID == id || j.TargetID == id {
				continue
			}
			keptJ = append(keptJ, j)
		}
		s.judgments[sessionID] = keptJ
	}
	return found
}

// Graph assembles the render snapshot: one category node per category
// in use, question nodes laid out on a grid beneath them, and one edge
// per stored judgment.
func (s *Store) Graph(sessionID string) domain.GraphData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := domain.GraphData{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}

	categories := []string{}
	seen := map[string]int{}
	for _, q := range s.questions[sessionID] {
		if _, ok := seen[q.Category]; !ok {
			seen[q.Category] = len(categories)
			categories = append(categories, q.Category)
		}
	}

	for i, cat := range categories {
		data.Nodes = append(data.Nodes, domain.GraphNode{
			ID:       "category-" + cat,
			Type:     domain.NodeTypeCategory,
			Position: domain.Position{X: float64(i) * 320, Y: 0},
			Data: domain.GraphNodeData{
				Label: cat,
				Color: categoryColors[i%len(categoryColors)],
			},
		})
	}

	perCategory := map[string]int{}
	for _, q := range s.questions[sessionID] {
		col := seen[q.Category]
		row := perCategory[q.Category]
		perCategory[q.Category]++
		data.Nodes = append(data.Nodes, domain.GraphNode{
			ID:       q.ID,
			Type:     domain.NodeTypeQuestion,
			Position: domain.Position{X: float64(col) * 320, Y: float64(row+1) * 140},
			Data: domain.GraphNodeData{
				Label:    truncateLabel(q.Text),
				FullText: q.Text,
				Answer:   q.Answer,
				Category: q.Category,
				Color:    categoryColors[col%len(categoryColors)],
			},
		})
	}

	for i, j := range s.judgments[sessionID] {
		style := map[string]string{"stroke": "#22c55e"}
		if !j.IsConsistent {
			style = map[string]string{"stroke": "#ef4444", "strokeDasharray": "6 4"}
		}
		data.Edges = append(data.Edges, domain.GraphEdge{
			ID:     fmt.Sprintf("edge-%d-%s-%s", i, j.SourceID, j.TargetID),
			Source: j.SourceID,
			Target: j.TargetID,
			Type:   domain.EdgeTypeConsistency,
			Style:  style,
			Data: domain.GraphEdgeData{
				IsConsistent: j.IsConsistent,
				Explanation:  j.Explanation,
			},
		})
	}

	return data
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= 40 {
		return s
	}
	return string(r[:39]) + "…"
}
