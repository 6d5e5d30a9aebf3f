// Package symptom administers the symptom checklist: each item is rated 0-6
// by the athlete and the module completes when every item has a rating.
package symptom

import (
	"fmt"
	"strconv"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
)

// Controller walks the symptom items with a cursor.
type Controller struct {
	module.Base
	result *exam.SymptomResult
	item   int
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleSymptom, New)
}

// New binds a controller to the session's symptom result.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleSymptom, rt.Protocol)
	sr, ok := res.(*exam.SymptomResult)
	if !ok {
		return nil, fmt.Errorf("symptom: unexpected result variant %T", res)
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleSymptom, rt.Notify),
		result: sr,
	}, nil
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionRate:
		rating, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			// Malformed voice payload, degrade to a drop.
			return nil
		}
		if c.item >= len(c.result.Items) {
			return nil
		}
		if err := c.result.RecordRating(c.item, rating); err != nil {
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
	rated := 0
	for _, r := range c.result.Rated {
		if r {
			rated++
		}
	}
	if rated == len(c.result.Items) {
		c.MarkDone()
		return
	}
	n := len(c.result.Items)
	for i := 1; i <= n; i++ {
		idx := (c.item + i) % n
		if !c.result.Rated[idx] {
			c.item = idx
			return
		}
	}
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	if c.item < len(c.result.Items) {
		return fmt.Sprintf("item %d/%d: %s (reported %d, severity %d)",
			c.item+1, len(c.result.Items), c.result.Items[c.item],
			c.result.Reported(), c.result.Score())
	}
	return fmt.Sprintf("reported %d, severity %d", c.result.Reported(), c.result.Score())
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "rate <0-6>", Help: "record the athlete's severity rating for this item"},
		{Phrase: "next / back", Help: "move between checklist items"},
		{Phrase: "complete module", Help: "finish the symptom evaluation"},
	}
}
