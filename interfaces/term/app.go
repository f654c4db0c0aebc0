package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mirror-client/application/alerts"
	"mirror-client/application/events"
	"mirror-client/application/framework"
	"mirror-client/application/quiz"
	"mirror-client/application/selection"
	"mirror-client/domain"
	"mirror-client/infrastructure/cache"
)

// QuestionAdder is the slice of the backend boundary the add-question
// prompt uses.
type QuestionAdder interface {
	AddQuestion(ctx context.Context, text string, answer domain.LikertAnswer, frameworkID string) (*domain.AddQuestionResponse, error)
}

// App composes the state containers with the terminal surfaces and runs
// the interactive loop. It is the single place where events are wired
// to their owners.
type App struct {
	logger     *zap.Logger
	bus        *events.Bus
	gateway    QuestionAdder
	cache      *cache.GraphCache
	machine    *quiz.Machine
	alerts     *alerts.Aggregator
	selection  *selection.Controller
	frameworks *framework.Controller
	view       *GraphView

	in  io.Reader
	out io.Writer
}

// NewApp wires the composition root.
func NewApp(
	bus *events.Bus,
	gateway QuestionAdder,
	graphCache *cache.GraphCache,
	machine *quiz.Machine,
	aggregator *alerts.Aggregator,
	sel *selection.Controller,
	frameworks *framework.Controller,
	view *GraphView,
	in io.Reader,
	out io.Writer,
	logger *zap.Logger,
) *App {
	return &App{
		logger:     logger,
		bus:        bus,
		gateway:    gateway,
		cache:      graphCache,
		machine:    machine,
		alerts:     aggregator,
		selection:  sel,
		frameworks: frameworks,
		view:       view,
		in:         in,
		out:        out,
	}
}

// wire subscribes every event kind to its owning state container.
func (a *App) wire() {
	a.bus.Subscribe(events.KindPromptsLoaded, func(e events.Event) {
		if p, ok := e.Payload.(quiz.PromptsLoaded); ok {
			a.machine.ApplyPromptsLoaded(p)
		}
	})
	a.bus.Subscribe(events.KindSubmissionSettled, func(e events.Event) {
		if s, ok := e.Payload.(quiz.SubmissionSettled); ok {
			a.machine.ApplySubmissionSettled(s)
		}
	})
	a.bus.Subscribe(events.KindAdvanceDue, func(e events.Event) {
		if d, ok := e.Payload.(quiz.AdvanceDue); ok {
			a.machine.ApplyAdvanceDue(d)
		}
	})
	a.bus.Subscribe(events.KindNodeClicked, func(e events.Event) {
		if n, ok := e.Payload.(domain.SelectedNode); ok {
			a.selection.Select(n)
		}
	})
	a.bus.Subscribe(events.KindGraphRefreshed, func(events.Event) {
		data, state, _ := a.cache.Read()
		if state == cache.StateReady {
			a.view.SetData(data)
		}
	})

	a.cache.Subscribe(func() {
		a.bus.Publish(events.Event{Kind: events.KindGraphRefreshed})
	})
}

// Run starts the dispatch loop and drives the screens until the input
// stream ends or the user quits.
func (a *App) Run(ctx context.Context) error {
	a.wire()

	go a.bus.Run(ctx)

	a.frameworks.LoadFrameworks(ctx)
	a.cache.Refresh(ctx)

	scanner := bufio.NewScanner(a.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch a.frameworks.Screen() {
		case framework.ScreenSelect:
			if done := a.selectScreen(ctx, scanner); done {
				return nil
			}
		case framework.ScreenQuiz:
			if done := a.quizScreen(ctx, scanner); done {
				return nil
			}
		case framework.ScreenGraph:
			if done := a.graphScreen(ctx, scanner); done {
				return nil
			}
		}
	}
}

// readLine blocks for one line of input. Returns false when the stream
// is closed.
func (a *App) readLine(scanner *bufio.Scanner) (string, bool) {
	fmt.Fprint(a.out, "> ")
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func (a *App) selectScreen(ctx context.Context, scanner *bufio.Scanner) bool {
	fmt.Fprintln(a.out)
	renderFrameworks(a.out, a.frameworks.Frameworks())
	fmt.Fprintf(a.out, "%sType a number to start, g for the graph, q to quit%s\n", ansiDim, ansiReset)

	line, ok := a.readLine(scanner)
	if !ok || line == "q" {
		return true
	}
	switch {
	case line == "g":
		a.frameworks.ShowGraph()
	default:
		if n, err := strconv.Atoi(line); err == nil {
			frameworks := a.frameworks.Frameworks()
			if n >= 1 && n <= len(frameworks) {
				a.frameworks.Choose(ctx, frameworks[n-1].ID)
			}
		}
	}
	return false
}

func (a *App) quizScreen(ctx context.Context, scanner *bufio.Scanner) bool {
	snap := a.machine.Snapshot()

	fmt.Fprintln(a.out)
	switch snap.State {
	case quiz.StateLoadingPrompts:
		fmt.Fprintln(a.out, "Loading questions... (enter to refresh, b to go back)")
	case quiz.StateCompleted:
		fmt.Fprintf(a.out, "%s%d reflection(s) recorded.%s Your contradiction graph is ready.\n",
			ansiBold, snap.Answered, ansiReset)
		fmt.Fprintf(a.out, "%sg shows the graph, c changes framework, q quits%s\n", ansiDim, ansiReset)
	case quiz.StateSubmitting:
		switch snap.Flash {
		case quiz.FlashInconsistent:
			fmt.Fprintf(a.out, "%sInconsistent with an earlier answer.%s\n", ansiRed, ansiReset)
		case quiz.FlashConsistent:
			fmt.Fprintf(a.out, "%sNo conflicts.%s\n", ansiGreen, ansiReset)
		default:
			fmt.Fprintln(a.out, "Saving... (enter to refresh)")
		}
	case quiz.StatePresenting:
		fmt.Fprintf(a.out, "%s[%d/%d]%s %s\n", ansiDim, snap.Index+1, snap.Total, ansiReset, snap.CurrentPrompt)
		for i, opt := range domain.LikertOptions {
			fmt.Fprintf(a.out, "  %d. %s\n", i+1, opt)
		}
		fmt.Fprintf(a.out, "%s1-5 answers, s skips, g skips to graph, b changes framework%s\n", ansiDim, ansiReset)
	}

	line, ok := a.readLine(scanner)
	if !ok || line == "q" {
		return true
	}
	switch line {
	case "":
		// Just re-render.
	case "b", "c":
		a.frameworks.BackToSelect()
	case "g":
		// Early exit to the graph is allowed from any quiz state.
		a.frameworks.ShowGraph()
	case "s":
		a.machine.Skip()
	default:
		if len(line) == 1 {
			a.machine.Key(ctx, rune(line[0]))
		}
	}
	return false
}

func (a *App) graphScreen(ctx context.Context, scanner *bufio.Scanner) bool {
	fmt.Fprintln(a.out)

	_, state, err := a.cache.Read()
	switch state {
	case cache.StateLoading:
		fmt.Fprintln(a.out, "Loading graph...")
	case cache.StateError:
		fmt.Fprintf(a.out, "%sFailed to load graph: %v%s\n", ansiRed, err, ansiReset)
	case cache.StateReady:
		a.view.Render(a.out)
	}

	fmt.Fprintln(a.out)
	renderDetails(a.out, a.selection.Selected(), a.selection.Armed())
	fmt.Fprintln(a.out)
	renderAlerts(a.out, a.alerts.Results())
	fmt.Fprintf(a.out, "%snumber selects, a adds, d deletes, x closes, r refreshes, n starts over, q quits%s\n", ansiDim, ansiReset)

	line, ok := a.readLine(scanner)
	if !ok || line == "q" {
		return true
	}
	switch line {
	case "", "r":
		a.cache.Refresh(ctx)
	case "a":
		a.addQuestion(ctx, scanner)
	case "x":
		a.selection.Clear()
	case "n":
		a.frameworks.BackToSelect()
	case "d":
		if _, err := a.selection.Delete(ctx); err != nil {
			fmt.Fprintf(a.out, "%sDelete failed: %v%s\n", ansiRed, err, ansiReset)
		}
	default:
		if n, err := strconv.Atoi(line); err == nil {
			if node, ok := a.view.NodeAt(n); ok {
				a.bus.Publish(events.Event{Kind: events.KindNodeClicked, Payload: node})
			}
		}
	}
	return false
}

// addQuestion prompts for a free-text question and a Likert answer,
// submits it and refreshes the graph. Empty text never leaves the
// process.
func (a *App) addQuestion(ctx context.Context, scanner *bufio.Scanner) {
	fmt.Fprint(a.out, "Question text: ")
	if !scanner.Scan() {
		return
	}
	text := strings.TrimSpace(scanner.Text())
	if text == "" {
		fmt.Fprintf(a.out, "%sQuestion text is required.%s\n", ansiRed, ansiReset)
		return
	}

	for i, opt := range domain.LikertOptions {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, opt)
	}
	fmt.Fprint(a.out, "Answer (1-5): ")
	if !scanner.Scan() {
		return
	}
	choice := strings.TrimSpace(scanner.Text())
	if len(choice) != 1 || choice[0] < '1' || choice[0] > '5' {
		fmt.Fprintf(a.out, "%sAnswer must be a number from 1 to 5.%s\n", ansiRed, ansiReset)
		return
	}
	answer := domain.LikertOptions[choice[0]-'1']

	resp, err := a.gateway.AddQuestion(ctx, text, answer, a.frameworks.ActiveID())
	if err != nil {
		fmt.Fprintf(a.out, "%sFailed to save question: %v%s\n", ansiRed, err, ansiReset)
		return
	}

	if domain.ClassifyBatch(resp.Consistency) == domain.OutcomeInconsistent {
		fmt.Fprintf(a.out, "%sInconsistent with an earlier answer.%s\n", ansiRed, ansiReset)
	} else {
		fmt.Fprintf(a.out, "%sNo conflicts.%s\n", ansiGreen, ansiReset)
	}
	a.alerts.Append(resp.Consistency)
	a.cache.Refresh(ctx)
}
