// Package orientation administers the fixed orientation questions. The
// examiner asks each question aloud and marks the athlete's answer correct or
// incorrect; the module completes once every question has a judgment.
package orientation

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
)

// Controller walks the question list with a cursor.
type Controller struct {
	module.Base
	result   *exam.OrientationResult
	question int
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleOrientation, New)
}

// New binds a controller to the session's orientation result.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleOrientation, rt.Protocol)
	or, ok := res.(*exam.OrientationResult)
	if !ok {
		return nil, fmt.Errorf("orientation: unexpected result variant %T", res)
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleOrientation, rt.Notify),
		result: or,
	}, nil
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionCorrect, command.ActionIncorrect:
		if c.question >= len(c.result.Questions) {
			return nil
		}
		if err := c.result.RecordAnswer(c.question, cmd.Action == command.ActionCorrect); err != nil {
			return err
		}
		c.advance()
	case command.ActionNext:
		if c.question+1 < len(c.result.Questions) {
			c.question++
		}
	case command.ActionBack:
		if c.question > 0 {
			c.question--
		}
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

func (c *Controller) advance() {
	if c.result.AnsweredCount() == len(c.result.Questions) {
		c.MarkDone()
		return
	}
	// Move to the next unanswered question, wrapping once.
	n := len(c.result.Questions)
	for i := 1; i <= n; i++ {
		idx := (c.question + i) % n
		if !c.result.Answered[idx] {
			c.question = idx
			return
		}
	}
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	if c.question < len(c.result.Questions) {
		return fmt.Sprintf("question %d/%d: %s (score %d)",
			c.question+1, len(c.result.Questions), c.result.Questions[c.question], c.result.Score())
	}
	return fmt.Sprintf("score %d/%d", c.result.Score(), len(c.result.Questions))
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "mark correct", Help: "score the current question as answered correctly"},
		{Phrase: "mark incorrect", Help: "score the current question as answered incorrectly"},
		{Phrase: "next / back", Help: "move between questions"},
		{Phrase: "complete module", Help: "finish orientation"},
	}
}
