// Package module defines the controller framework for assessment modules.
//
// Exactly one controller is "live" at a time: the command router forwards
// every module-scoped command to it through the single Dispatch entry point.
// Controllers mutate only their own module's result record and signal
// completion through the runtime's notify hook.
package module

import (
	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
)

// Controller is implemented by every module's command target.
type Controller interface {
	// Module identifies which battery entry this controller administers.
	Module() exam.ModuleID
	// Dispatch applies one routed command. Commands the module does not
	// understand are ignored; a non-nil error indicates a programming fault
	// (sealed result, out-of-range item), never a bad utterance.
	Dispatch(cmd command.Command) error
	// Status is a one-line progress summary for the display.
	Status() string
	// Commands lists the utterances this controller currently understands,
	// for the help surface.
	Commands() []command.Description
	// Done reports whether the module has recorded everything it needs.
	Done() bool
}
