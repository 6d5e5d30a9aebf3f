// Package memory administers the immediate-memory trials: the same word list
// is read three times, and the examiner toggles each word the athlete
// recalls. The first trial's list is canonical for delayed recall.
package memory

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/scoring"
)

// Controller drives the three recall trials.
type Controller struct {
	module.Base
	result *exam.MemoryResult
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleMemory, New)
}

// New binds a controller to the session's memory result and opens the first
// trial when none has run yet.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleMemory, rt.Protocol)
	mr, ok := res.(*exam.MemoryResult)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected result variant %T", res)
	}
	if len(mr.Trials) == 0 {
		if err := mr.StartTrial(rt.Protocol.WordList); err != nil {
			return nil, fmt.Errorf("memory: open first trial: %w", err)
		}
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleMemory, rt.Notify),
		result: mr,
	}, nil
}

func (c *Controller) trial() int {
	return len(c.result.Trials) - 1
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionWord:
		if cmd.Arg == "" {
			return nil
		}
		return c.result.ToggleRecalled(c.trial(), cmd.Arg)
	case command.ActionNext:
		if len(c.result.Trials) < scoring.MemoryTrials {
			// Every trial presents the canonical list from trial one.
			return c.result.StartTrial(c.result.CanonicalWords())
		}
		c.MarkDone()
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	t := c.trial()
	words := c.result.Trials[t].Words
	return fmt.Sprintf("trial %d/%d: %d/%d recalled (total %d)",
		t+1, scoring.MemoryTrials, c.result.TrialScore(t), len(words), c.result.Score())
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "word <w>", Help: "toggle a recalled word"},
		{Phrase: "next", Help: "start the next trial, or finish after trial three"},
		{Phrase: "complete module", Help: "finish immediate memory"},
	}
}
