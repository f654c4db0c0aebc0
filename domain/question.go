package domain

import "time"

// Question is a self-assessment statement together with the user's
// answer and the category the backend assigned to it. Questions are
// owned by the backend; the client only holds transient copies and never
// edits one in place (replacement is delete plus recreate).
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ConsistencyResult is the backend's judgment of a newly added question
// against one prior question. Results are immutable; the client only
// appends and reads them.
type ConsistencyResult struct {
	SourceID     string `json:"source_id"`
	TargetID     string `json:"target_id"`
	IsConsistent bool   `json:"is_consistent"`
	Explanation  string `json:"explanation"`
	Color        string `json:"color"`
	TargetText   string `json:"target_text,omitempty"`
	TargetAnswer string `json:"target_answer,omitempty"`
}

// AddQuestionResponse is returned by the add-question call: the created
// question plus its consistency results against all prior questions.
type AddQuestionResponse struct {
	Question    Question            `json:"question"`
	Consistency []ConsistencyResult `json:"consistency"`
}

// CheckRequest asks the backend to judge an arbitrary text/answer pair
// against another.
type CheckRequest struct {
	QuestionText   string `json:"question_text" validate:"required"`
	QuestionAnswer string `json:"question_answer" validate:"required"`
	CompareText    string `json:"compare_text" validate:"required"`
	CompareAnswer  string `json:"compare_answer" validate:"required"`
}

// CheckResponse carries a single consistency judgment.
type CheckResponse struct {
	IsConsistent bool   `json:"is_consistent"`
	Explanation  string `json:"explanation"`
}

// Outcome classifies a consistency batch for the submission flash.
type Outcome int

const (
	// OutcomeConsistent means the batch was empty or every entry was
	// judged consistent.
	OutcomeConsistent Outcome = iota
	// OutcomeInconsistent means at least one entry was judged
	// inconsistent.
	OutcomeInconsistent
)

// ClassifyBatch reduces a consistency batch to a single outcome.
func ClassifyBatch(results []ConsistencyResult) Outcome {
	for _, r := range results {
		if !r.IsConsistent {
			return OutcomeInconsistent
		}
	}
	return OutcomeConsistent
}
