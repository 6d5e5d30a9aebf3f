package tui

import (
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/orchestrator"
)

// Display adapts the bubbletea program into the orchestrator's display port.
// Show and hide requests are delivered to the program as messages; the app
// answers with DisplayShown/DisplayHidden confirmation events once the screen
// actually changed, completing the asynchronous handshake.
type Display struct {
	program atomic.Pointer[tea.Program]
	shown   atomic.Bool
	submit  func(orchestrator.Event)
}

// NewDisplay builds a display port feeding confirmations into submit.
func NewDisplay(submit func(orchestrator.Event)) *Display {
	if submit == nil {
		submit = func(orchestrator.Event) {}
	}
	return &Display{submit: submit}
}

// Attach binds the running program. Requests before attachment fail softly.
func (d *Display) Attach(p *tea.Program) {
	d.program.Store(p)
}

// RequestShow implements orchestrator.DisplayPort.
func (d *Display) RequestShow(id exam.ModuleID) error {
	p := d.program.Load()
	if p == nil {
		return fmt.Errorf("tui: display not attached")
	}
	p.Send(showModuleMsg{id: id})
	return nil
}

// RequestHide implements orchestrator.DisplayPort.
func (d *Display) RequestHide() error {
	p := d.program.Load()
	if p == nil {
		return fmt.Errorf("tui: display not attached")
	}
	p.Send(hideSurfaceMsg{})
	return nil
}

// IsShown implements orchestrator.DisplayPort.
func (d *Display) IsShown() bool {
	return d.shown.Load()
}

// Render implements orchestrator.DisplayPort.
func (d *Display) Render(snap orchestrator.Snapshot) {
	if p := d.program.Load(); p != nil {
		p.Send(snapshotMsg{snap: snap})
	}
}

func (d *Display) confirmShown() {
	d.shown.Store(true)
	d.submit(orchestrator.DisplayShownEvent{})
}

func (d *Display) confirmHidden() {
	d.shown.Store(false)
	d.submit(orchestrator.DisplayHiddenEvent{})
}

// reportDismissed records an un-requested dismissal (the examiner closed the
// surface directly); the orchestrator reacts by resuming the current module.
func (d *Display) reportDismissed() {
	d.shown.Store(false)
	d.submit(orchestrator.DisplayHiddenEvent{})
}
