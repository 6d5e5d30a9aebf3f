// Package balance administers the stance trials. Each stance is observed for
// a fixed 20-second window while the examiner counts error events; counts are
// capped at ten per trial when scored.
package balance

import (
	"fmt"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/scoring"
)

// Controller walks the stance list with a cursor.
type Controller struct {
	module.Base
	result *exam.BalanceResult
	stance int
}

// Register adds the controller factory to the registry.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(exam.ModuleBalance, New)
}

// New binds a controller to the session's balance result.
func New(rt *module.Runtime) (module.Controller, error) {
	res := rt.Session.EnsureResult(exam.ModuleBalance, rt.Protocol)
	br, ok := res.(*exam.BalanceResult)
	if !ok {
		return nil, fmt.Errorf("balance: unexpected result variant %T", res)
	}
	return &Controller{
		Base:   module.NewBase(exam.ModuleBalance, rt.Notify),
		result: br,
	}, nil
}

// Dispatch implements module.Controller.
func (c *Controller) Dispatch(cmd command.Command) error {
	switch cmd.Action {
	case command.ActionRecordError:
		if c.stance >= len(c.result.Stances) {
			return nil
		}
		return c.result.RecordError(c.stance)
	case command.ActionNext:
		if c.stance+1 < len(c.result.Stances) {
			c.stance++
			return nil
		}
		c.MarkDone()
	case command.ActionBack:
		if c.stance > 0 {
			c.stance--
		}
	case command.ActionComplete, command.ActionSkip:
		c.MarkDone()
	}
	return nil
}

// Status implements module.Controller.
func (c *Controller) Status() string {
	if c.stance < len(c.result.Stances) {
		return fmt.Sprintf("stance %d/%d %s: %d errors in %ds window (total %d)",
			c.stance+1, len(c.result.Stances), c.result.Stances[c.stance],
			c.result.TrialScore(c.stance), scoring.BalanceTrialSeconds, c.result.Score())
	}
	return fmt.Sprintf("total errors %d", c.result.Score())
}

// Commands implements module.Controller.
func (c *Controller) Commands() []command.Description {
	return []command.Description{
		{Phrase: "record error", Help: "count one balance error in this stance"},
		{Phrase: "next", Help: "move to the next stance, or finish after the last"},
		{Phrase: "back", Help: "return to the previous stance"},
		{Phrase: "complete module", Help: "finish the balance examination"},
	}
}
