// Package delayedrecall administers the delayed-recall check against the
// word list captured from the first immediate-memory trial.
package delayedrecall

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
)

// Controller collects the delayed recall set.
type Controller struct {
	module.Base
	result *exam.DelayedRecallResult
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleDelayedRecall, New)
}

// New binds a controller to the session's delayed-recall result, pinning the
// canonical word list from the first memory trial.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleDelayedRecall, rt.Protocol)
	dr, ok := res.(*exam.DelayedRecallResult)
	if !ok {
		return nil, fmt.Errorf("delayedrecall: unexpected result variant %T", res)
	}
	if err := dr.SetWordList(rt.Session.MemoryWordList(rt.Protocol)); err != nil {
		return nil, fmt.Errorf("delayedrecall: pin word list: %w", err)
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleDelayedRecall, rt.Notify),
		result: dr,
	}, nil
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionWord:
		if cmd.Arg == "" {
			return nil
		}
		return c.result.ToggleRecalled(cmd.Arg)
	case command.ActionNext, command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	return fmt.Sprintf("%d/%d recalled", c.result.Score(), len(c.result.Words))
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "word <w>", Help: "toggle a recalled word"},
		{Phrase: "complete module", Help: "finish delayed recall"},
	}
}
