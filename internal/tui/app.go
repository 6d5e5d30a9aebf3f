// internal/tui/app.go
//
// The examiner-facing terminal screen. It uses bubbletea's Elm architecture:
// the App model holds all presentation state, Update reacts to messages, and
// View renders a string.
//
// The app is deliberately passive: every piece of assessment state it shows
// comes from orchestrator snapshots pushed after each event, so presentation
// never reads loop-owned state concurrently. Key presses become commands or
// display confirmations submitted back to the loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/orchestrator"
)

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	scoreStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	helpHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

type showModuleMsg struct {
	id exam.ModuleID
}

type hideSurfaceMsg struct{}

type snapshotMsg struct {
	snap orchestrator.Snapshot
}

// inputKind selects what the free-text line is collecting.
type inputKind int

const (
	inputNone inputKind = iota
	inputWord
	inputDigits
	inputRating
)

// App is the main application model.
type App struct {
	display *Display
	submit  func(orchestrator.Event)

	surfaceShown  bool
	currentModule exam.ModuleID
	snap          orchestrator.Snapshot
	haveSnap      bool

	input     textinput.Model
	inputMode inputKind

	width  int
	height int
}

// NewApp builds the model. The display adapter must be the same one passed
// to the orchestrator so confirmations line up with requests.
func NewApp(display *Display, submit func(orchestrator.Event)) *App {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32
	if submit == nil {
		submit = func(orchestrator.Event) {}
	}
	return &App{display: display, submit: submit, input: ti}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case showModuleMsg:
		a.surfaceShown = true
		a.currentModule = msg.id
		a.display.confirmShown()
		return a, nil

	case hideSurfaceMsg:
		a.surfaceShown = false
		a.display.confirmHidden()
		return a, nil

	case snapshotMsg:
		a.snap = msg.snap
		a.haveSnap = true
		if a.snap.Phase == orchestrator.PhaseFinished {
			a.inputMode = inputNone
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.inputMode != inputNone {
		return a.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if a.haveSnap && a.snap.Phase == orchestrator.PhaseFinished {
			return a, tea.Quit
		}
		a.submit(orchestrator.ExitEvent{})
		return a, nil
	case "esc":
		// Simulates a dismissal the orchestrator did not request; it will
		// resume the current module's presentation.
		if a.surfaceShown {
			a.surfaceShown = false
			a.display.reportDismissed()
		}
		return a, nil
	case "?":
		a.submit(orchestrator.CommandEvent{Cmd: command.Command{Action: command.ActionHelp}})
		return a, nil
	case "c":
		a.submitCommand(command.ActionCorrect, "")
	case "x":
		a.submitCommand(command.ActionIncorrect, "")
	case "n", "enter":
		a.submitCommand(command.ActionNext, "")
	case "b":
		a.submitCommand(command.ActionBack, "")
	case "e":
		a.submitCommand(command.ActionRecordError, "")
	case "m":
		a.submitCommand(command.ActionComplete, "")
	case "w":
		a.startInput(inputWord, "recalled word")
	case "d":
		a.startInput(inputDigits, "digit response")
	case "r":
		a.startInput(inputRating, "rating 0-6")
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.inputMode = inputNone
		a.input.Reset()
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.input.Value())
		mode := a.inputMode
		a.inputMode = inputNone
		a.input.Reset()
		if value == "" {
			return a, nil
		}
		switch mode {
		case inputWord:
			a.submitCommand(command.ActionWord, value)
		case inputDigits:
			a.submitCommand(command.ActionDigits, value)
		case inputRating:
			a.submitCommand(command.ActionRate, value)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) startInput(kind inputKind, placeholder string) {
	a.inputMode = kind
	a.input.Placeholder = placeholder
	a.input.Reset()
	a.input.Focus()
}

func (a *App) submitCommand(action command.Action, arg string) {
	a.submit(orchestrator.CommandEvent{Cmd: command.Command{Action: action, Arg: arg}})
}

// View implements tea.Model.
func (a *App) View() string {
	if a.haveSnap && a.snap.Phase == orchestrator.PhaseFinished {
		return a.viewSummary()
	}
	if !a.surfaceShown {
		return a.viewTransition()
	}
	return a.viewModule()
}

func (a *App) viewTransition() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Sideline Assessment"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  preparing next module..."))
	b.WriteString("\n")
	return b.String()
}

func (a *App) viewModule() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  " + a.snap.Title))
	if a.snap.ModuleCount > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   module %d of %d", a.snap.ModuleIndex+1, a.snap.ModuleCount)))
	}
	b.WriteString("\n\n")
	if a.snap.Status != "" {
		b.WriteString(statusStyle.Render("  " + a.snap.Status))
		b.WriteString("\n\n")
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("  sub-score %d", a.snap.Score)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   completed %d/%d", a.snap.CompletedCount, a.snap.ModuleCount)))
	b.WriteString("\n")

	if a.inputMode != inputNone {
		b.WriteString("\n  " + a.input.View() + "\n")
	}

	if a.snap.HelpVisible {
		b.WriteString("\n")
		b.WriteString(helpHeaderStyle.Render("  voice commands"))
		b.WriteString("\n")
		for _, d := range a.snap.Help {
			b.WriteString(dimStyle.Render(fmt.Sprintf("    %-18s %s", d.Phrase, d.Help)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  c correct · x incorrect · n next · b back · e error · w word · d digits · r rate · ? help · q exit"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) viewSummary() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Assessment complete"))
	b.WriteString("\n\n")
	b.WriteString(summaryStyle.Render(fmt.Sprintf("  session %s", a.snap.SessionID)))
	b.WriteString("\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("  total score %d", a.snap.TotalScore)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   modules completed %d/%d", a.snap.CompletedCount, a.snap.ModuleCount)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  press q to close"))
	b.WriteString("\n")
	return b.String()
}
