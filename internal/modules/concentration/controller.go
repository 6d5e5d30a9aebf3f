// Package concentration administers digits backwards followed by the months
// of the year in reverse order.
//
// Digit sequences are presented in increasing length. Presentation stops
// early after two consecutive misses; sequences never presented are excluded
// from both scoring and the stored record. The months task is a single
// fully-correct-or-not judgment worth one point.
package concentration

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/scoring"
)

type phase int

const (
	phaseDigits phase = iota
	phaseMonths
	phaseDone
)

// Controller drives the two concentration tasks.
type Controller struct {
	module.Base
	result  *exam.ConcentrationResult
	planned []string
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleConcentration, New)
}

// New binds a controller to the session's concentration result.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleConcentration, rt.Protocol)
	cr, ok := res.(*exam.ConcentrationResult)
	if !ok {
		return nil, fmt.Errorf("concentration: unexpected result variant %T", res)
	}
	return &Controller{
		Base:    module.NewBase(exam.ModuleConcentration, rt.Notify),
		result:  cr,
		planned: append([]string{}, rt.Protocol.DigitSequences...),
	}, nil
}

func (c *Controller) phase() phase {
	if c.Done() || c.result.MonthsAsked {
		return phaseDone
	}
	if len(c.result.Sequences) >= len(c.planned) {
		return phaseMonths
	}
	if c.result.ConsecutiveMisses() >= scoring.DigitSpanMaxConsecutiveMisses {
		return phaseMonths
	}
	return phaseDigits
}

// nextSequence is the digit string to present next.
func (c *Controller) nextSequence() (string, bool) {
	idx := len(c.result.Sequences)
	if idx >= len(c.planned) {
		return "", false
	}
	return c.planned[idx], true
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch c.phase() {
	case phaseDigits:
		return c.dispatchDigits(cmd)
	case phaseMonths:
		return c.dispatchMonths(cmd)
	default:
		if cmd.Action == command.ActionComplete || cmd.Action == command.ActionSkip {
			c.MarkDone()
		}
		return nil
	}
}

func (c *Controller) dispatchDigits(cmd command.Command) error {
	presented, ok := c.nextSequence()
	if !ok {
		return nil
	}
	switch cmd.Action {
	case command.ActionDigits:
		if _, err := c.result.RecordDigitAttempt(presented, cmd.Arg); err != nil {
			return err
		}
	case command.ActionCorrect:
		// Examiner judged the spoken response correct without dictating it.
		if _, err := c.result.RecordDigitAttempt(presented, scoring.ReverseDigits(presented)); err != nil {
			return err
		}
	case command.ActionIncorrect:
		if _, err := c.result.RecordDigitAttempt(presented, ""); err != nil {
			return err
		}
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

func (c *Controller) dispatchMonths(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionCorrect, command.ActionIncorrect:
		if err := c.result.RecordMonths(cmd.Action == command.ActionCorrect); err != nil {
			return err
		}
		c.MarkDone()
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	switch c.phase() {
	case phaseDigits:
		presented, _ := c.nextSequence()
		return fmt.Sprintf("digits backwards %d/%d: read %s (score %d, misses in a row %d)",
			len(c.result.Sequences)+1, len(c.planned), spaced(presented),
			c.result.DigitScore(), c.result.ConsecutiveMisses())
	case phaseMonths:
		return fmt.Sprintf("months in reverse order (digit score %d)", c.result.DigitScore())
	default:
		return fmt.Sprintf("score %d", c.result.Score())
	}
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "response <digits>", Help: "record the athlete's digit response"},
		{Phrase: "mark correct", Help: "score the current task as correct"},
		{Phrase: "mark incorrect", Help: "score the current task as incorrect"},
		{Phrase: "complete module", Help: "finish concentration"},
	}
}

func spaced(digits string) string {
	out := make([]byte, 0, len(digits)*2)
	for i := 0; i < len(digits); i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return string(out)
}
