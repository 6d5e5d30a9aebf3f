package module

import (
	"strings"
	"testing"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
)

type fakeController struct {
	Base
}

func (c *fakeController) Dispatch(command.Command) error { return nil }

func (c *fakeController) Status() string { return "fake" }

func (c *fakeController) Commands() []command.Description { return nil }

func newFakeFactory(id exam.ModuleID) Factory {
	return func(rt *Runtime) (Controller, error) {
		return &fakeController{Base: NewBase(id, rt.Notify)}, nil
	}
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(exam.ModuleOrientation, newFakeFactory(exam.ModuleOrientation)); err != nil {
		t.Fatalf("register: %v", err)
	}
	rt := NewRuntime(nil, exam.Protocol{}, nil, nil)
	ctrl, err := reg.Resolve(exam.ModuleOrientation, rt)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ctrl.Module() != exam.ModuleOrientation {
		t.Fatalf("controller module = %q", ctrl.Module())
	}
}

func TestRegistryRejectsDuplicateAndInvalid(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(exam.ModuleOrientation, newFakeFactory(exam.ModuleOrientation)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(exam.ModuleOrientation, newFakeFactory(exam.ModuleOrientation)); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
	if err := reg.Register("juggling", newFakeFactory("juggling")); err == nil {
		t.Fatalf("invalid id accepted")
	}
	if err := reg.Register(exam.ModuleMemory, nil); err == nil {
		t.Fatalf("nil factory accepted")
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Resolve(exam.ModuleBalance, NewRuntime(nil, exam.Protocol{}, nil, nil)); err == nil {
		t.Fatalf("unknown id resolved")
	}
}

func TestRegistryResolveRejectsIdentityMismatch(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(exam.ModuleBalance, newFakeFactory(exam.ModuleNeuro))
	_, err := reg.Resolve(exam.ModuleBalance, NewRuntime(nil, exam.Protocol{}, nil, nil))
	if err == nil || !strings.Contains(err.Error(), "built controller for") {
		t.Fatalf("identity mismatch not detected: %v", err)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(exam.ModuleOrientation, newFakeFactory(exam.ModuleOrientation))
	reg.MustRegister(exam.ModuleBalance, newFakeFactory(exam.ModuleBalance))
	reg.MustRegister(exam.ModuleMemory, newFakeFactory(exam.ModuleMemory))
	ids := reg.IDs()
	if len(ids) != 3 {
		t.Fatalf("ids = %v", ids)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
}

func TestMarkDoneNotifiesOnce(t *testing.T) {
	fired := 0
	base := NewBase(exam.ModuleMemory, func(id exam.ModuleID) {
		if id != exam.ModuleMemory {
			t.Fatalf("notify id = %q", id)
		}
		fired++
	})
	base.MarkDone()
	base.MarkDone()
	if fired != 1 {
		t.Fatalf("notify fired %d times, want 1", fired)
	}
	if !base.Done() {
		t.Fatalf("base not done after MarkDone")
	}
}
