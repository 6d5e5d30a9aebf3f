// Package neuro administers the neurological screen, a fixed checklist of
// pass/fail observations.
package neuro

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
)

// Controller walks the screen items with a cursor.
type Controller struct {
	module.Base
	result *exam.NeuroResult
	item   int
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleNeuro, New)
}

// New binds a controller to the session's neurological screen result.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleNeuro, rt.Protocol)
	nr, ok := res.(*exam.NeuroResult)
	if !ok {
		return nil, fmt.Errorf("neuro: unexpected result variant %T", res)
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleNeuro, rt.Notify),
		result: nr,
	}, nil
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionCorrect, command.ActionIncorrect:
		if c.item >= len(c.result.Items) {
			return nil
		}
		if err := c.result.RecordOutcome(c.item, cmd.Action == command.ActionCorrect); err != nil {
			return err
		}
		c.advance()
	case command.ActionNext:
		if c.item+1 < len(c.result.Items) {
			c.item++
		}
	case command.ActionBack:
		if c.item > 0 {
			c.item--
		}
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

func (c *Controller) advance() {
	if c.result.AllAnswered() {
		c.MarkDone()
		return
	}
	n := len(c.result.Items)
	for i := 1; i <= n; i++ {
		idx := (c.item + i) % n
		if !c.result.Answered[idx] {
			c.item = idx
			return
		}
	}
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	if c.item < len(c.result.Items) {
		return fmt.Sprintf("item %d/%d: %s (%d passed)",
			c.item+1, len(c.result.Items), c.result.Items[c.item], c.result.Score())
	}
	return fmt.Sprintf("%d passed", c.result.Score())
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "mark correct", Help: "record the current observation as a pass"},
		{Phrase: "mark incorrect", Help: "record the current observation as a fail"},
		{Phrase: "next / back", Help: "move between screen items"},
		{Phrase: "complete module", Help: "finish the neurological screen"},
	}
}
