package term

import (
	"fmt"
	"io"

	"mirror-client/domain"
)

// renderDetails writes the detail panel for the current selection.
func renderDetails(w io.Writer, node *domain.SelectedNode, armed bool) {
	if node == nil {
		fmt.Fprintln(w, "Nothing selected. Type a node number to see details.")
		return
	}

	if node.Type == domain.NodeTypeCategory {
		fmt.Fprintf(w, "%sCategory%s\n  %s\n", ansiBold, ansiReset, node.Data.Label)
		return
	}

	fmt.Fprintf(w, "%sQuestion details%s\n", ansiBold, ansiReset)
	text := node.Data.FullText
	if text == "" {
		text = node.Data.Label
	}
	fmt.Fprintf(w, "  Question: %s\n", text)
	answer := node.Data.Answer
	if answer == "" {
		answer = "N/A"
	}
	fmt.Fprintf(w, "  Answer:   %s%s%s\n", answerStyle(node.Data.Answer), answer, ansiReset)
	if node.Data.Category != "" {
		fmt.Fprintf(w, "  Category: %s\n", node.Data.Category)
	}
	if armed {
		fmt.Fprintf(w, "  %sPress d again to confirm delete, x to cancel%s\n", ansiRed, ansiReset)
	} else {
		fmt.Fprintf(w, "  %sd deletes this question%s\n", ansiDim, ansiReset)
	}
}

// renderAlerts writes the consistency alerts panel, most recent first.
func renderAlerts(w io.Writer, results []domain.ConsistencyResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No consistency checks yet.")
		return
	}

	fmt.Fprintf(w, "%sConsistency alerts%s\n", ansiBold, ansiReset)
	for _, r := range results {
		if r.IsConsistent {
			fmt.Fprintf(w, "  %s[consistent]%s %s\n", ansiGreen, ansiReset, truncate(r.Explanation, 68))
		} else {
			fmt.Fprintf(w, "  %s[inconsistent]%s %s\n", ansiRed, ansiReset, truncate(r.Explanation, 68))
		}
	}
}

// renderFrameworks writes the framework selection screen.
func renderFrameworks(w io.Writer, frameworks []domain.Framework) {
	fmt.Fprintf(w, "%sMirror%s: choose a framework, answer honestly, watch your contradictions surface.\n\n", ansiBold, ansiReset)
	if len(frameworks) == 0 {
		fmt.Fprintln(w, "No frameworks available. Is the backend running?")
		return
	}
	for i, fw := range frameworks {
		fmt.Fprintf(w, " %2d. %s %s%s%s: %s (%d questions)\n",
			i+1, fw.Icon, ansiBold, fw.Name, ansiReset, fw.Description, fw.PrincipleCount)
	}
}
