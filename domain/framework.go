package domain

// Framework is a named set of principles under which questions are
// grouped. Descriptive metadata only; fetched once and never mutated by
// the client.
type Framework struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Icon           string   `json:"icon"`
	PrincipleCount int      `json:"principle_count"`
	Principles     []string `json:"principles"`
}

// DefaultFrameworkID is the framework the client starts on before the
// user picks one.
const DefaultFrameworkID = "agency"

// FrameworkList is the response envelope of the framework listing call.
type FrameworkList struct {
	Frameworks []Framework `json:"frameworks"`
}
