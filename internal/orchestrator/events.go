package orchestrator

import (
	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
)

// Event is one discrete external signal delivered to the session loop.
// Handling an event always runs to completion before the next is processed.
type Event interface {
	isEvent()
}

// CommandEvent carries one routed command from the voice bridge or keyboard.
type CommandEvent struct {
	Cmd command.Command
}

// CompletionEvent signals that a module controller considers its module done.
// Duplicate or stale completion signals are absorbed by the sequencer.
type CompletionEvent struct {
	Module exam.ModuleID
}

// DisplayShownEvent confirms the display subsystem finished presenting.
type DisplayShownEvent struct{}

// DisplayHiddenEvent confirms the display subsystem finished dismissing. It
// also arrives when the surface was dismissed by outside action; the
// orchestrator distinguishes the two by its own pending request.
type DisplayHiddenEvent struct{}

// ExitEvent requests early termination of the session from any state.
type ExitEvent struct{}

// displayTimeoutEvent fires when a show/hide confirmation fails to arrive
// within the bounded wait. The generation guards against stale timers.
type displayTimeoutEvent struct {
	generation int
}

func (CommandEvent) isEvent()        {}
func (CompletionEvent) isEvent()     {}
func (DisplayShownEvent) isEvent()   {}
func (DisplayHiddenEvent) isEvent()  {}
func (ExitEvent) isEvent()           {}
func (displayTimeoutEvent) isEvent() {}

// Phase is the orchestrator's lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseModuleActive
	PhaseTransitioning
	PhaseFinished
)

// String returns the phase name for logs and transcripts.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseModuleActive:
		return "module-active"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Snapshot is the render state pushed to the display after every event, so
// presentation never reads loop-owned state concurrently.
type Snapshot struct {
	Phase          Phase
	SessionID      string
	Module         exam.ModuleID
	Title          string
	Status         string
	Score          int
	ModuleIndex    int
	ModuleCount    int
	CompletedCount int
	TotalScore     int
	HelpVisible    bool
	Help           []command.Description
}
