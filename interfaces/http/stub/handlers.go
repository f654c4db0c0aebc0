package stub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mirror-client/domain"
)

// sessionID extracts the anonymous session identifier, falling back to
// the sentinel the client uses when it has no storage.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.FrameworkList{Frameworks: s.store.Frameworks()})
}

func (s *Server) getPrompts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "frameworkID")
	prompts, ok := s.store.Prompts(id)
	if !ok {
		writeError(w, http.StatusNotFound, "framework not found")
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Graph(sessionID(r)))
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions := s.store.Questions(sessionID(r))
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

type addQuestionRequest struct {
	Text        string `json:"text"`
	Answer      string `json:"answer"`
	FrameworkID string `json:"framework_id"`
}

func (s *Server) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	if _, err := domain.ParseLikert(req.Answer); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	question, results := s.store.AddQuestion(sessionID(r), req.Text, req.Answer, req.FrameworkID)
	if results == nil {
		results = []domain.ConsistencyResult{}
	}
	writeJSON(w, http.StatusOK, domain.AddQuestionResponse{
		Question:    question,
		Consistency: results,
	})
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionID")
	if !s.store.DeleteQuestion(sessionID(r), id) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// The ad-hoc check uses the same stand-in heuristic as add, with
	// both statements forced into one bucket so polarity is all that
	// matters.
	q := domain.Question{Text: req.QuestionText, Answer: req.QuestionAnswer, Category: "check"}
	prior := domain.Question{Text: req.CompareText, Answer: req.CompareAnswer, Category: "check"}
	result := judge(q, prior)

	writeJSON(w, http.StatusOK, domain.CheckResponse{
		IsConsistent: result.IsConsistent,
		Explanation:  result.Explanation,
	})
}
