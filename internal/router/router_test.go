package router

import (
	"errors"
	"testing"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
)

type stubController struct {
	dispatched []command.Command
	err        error
}

func (c *stubController) Module() exam.ModuleID { return exam.ModuleOrientation }

func (c *stubController) Dispatch(cmd command.Command) error {
	c.dispatched = append(c.dispatched, cmd)
	return c.err
}

func (c *stubController) Status() string { return "stub" }

func (c *stubController) Commands() []command.Description {
	return []command.Description{{Phrase: "mark correct", Help: "stub"}}
}

func (c *stubController) Done() bool { return false }

func TestRouteForwardsModuleCommands(t *testing.T) {
	r := New(nil)
	ctrl := &stubController{}
	r.SetTarget(ctrl, ContextModule)

	r.Route(command.Command{Action: command.ActionCorrect})
	r.Route(command.Command{Action: command.ActionWord, Arg: "penny"})

	if len(ctrl.dispatched) != 2 {
		t.Fatalf("dispatched = %v", ctrl.dispatched)
	}
	if ctrl.dispatched[1].Arg != "penny" {
		t.Fatalf("payload lost: %+v", ctrl.dispatched[1])
	}
}

func TestRouteWithNoTargetDropsSilently(t *testing.T) {
	r := New(nil)
	// Must not panic and must not error.
	r.Route(command.Command{Action: command.ActionCorrect})
	r.ClearTarget(ContextTransition)
	r.Route(command.Command{Action: command.ActionNext})
}

func TestRouteDropsUnknownCommands(t *testing.T) {
	r := New(nil)
	ctrl := &stubController{}
	r.SetTarget(ctrl, ContextModule)
	r.Route(command.Command{Action: "celebrate"})
	if len(ctrl.dispatched) != 0 {
		t.Fatalf("unknown command reached target: %v", ctrl.dispatched)
	}
}

func TestRouteGlobalsNeverReachTarget(t *testing.T) {
	r := New(nil)
	ctrl := &stubController{}
	r.SetTarget(ctrl, ContextModule)
	r.Route(command.Command{Action: command.ActionExit})
	r.Route(command.Command{Action: command.ActionRepeat})
	r.Route(command.Command{Action: command.ActionHelp})
	if len(ctrl.dispatched) != 0 {
		t.Fatalf("global command reached target: %v", ctrl.dispatched)
	}
}

func TestHelpToggle(t *testing.T) {
	r := New(nil)
	if r.HelpVisible() {
		t.Fatalf("help visible initially")
	}
	r.Route(command.Command{Action: command.ActionHelp})
	if !r.HelpVisible() {
		t.Fatalf("help not visible after toggle")
	}
	r.Route(command.Command{Action: command.ActionHelp})
	if r.HelpVisible() {
		t.Fatalf("help visible after second toggle")
	}
}

func TestRouteSurvivesDispatchError(t *testing.T) {
	r := New(nil)
	ctrl := &stubController{err: errors.New("boom")}
	r.SetTarget(ctrl, ContextModule)
	r.Route(command.Command{Action: command.ActionCorrect})
	if len(ctrl.dispatched) != 1 {
		t.Fatalf("dispatch not attempted")
	}
	if r.Target() == nil {
		t.Fatalf("target cleared on dispatch error")
	}
}

func TestSetTargetReplacesPrevious(t *testing.T) {
	r := New(nil)
	first := &stubController{}
	second := &stubController{}
	r.SetTarget(first, ContextModule)
	r.SetTarget(second, ContextModule)
	r.Route(command.Command{Action: command.ActionCorrect})
	if len(first.dispatched) != 0 || len(second.dispatched) != 1 {
		t.Fatalf("routing did not switch targets: first=%d second=%d",
			len(first.dispatched), len(second.dispatched))
	}
}

func TestAvailableCommands(t *testing.T) {
	r := New(nil)
	base := len(r.AvailableCommands())
	if base == 0 {
		t.Fatalf("no global commands listed")
	}
	r.SetTarget(&stubController{}, ContextModule)
	withTarget := r.AvailableCommands()
	if len(withTarget) != base+1 {
		t.Fatalf("commands with target = %d, want %d", len(withTarget), base+1)
	}
	// Mutating the returned slice must not leak into later calls.
	withTarget[0] = command.Description{Phrase: "mutated"}
	if r.AvailableCommands()[0].Phrase == "mutated" {
		t.Fatalf("AvailableCommands shares backing storage across calls")
	}
}
