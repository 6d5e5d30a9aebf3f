// Package command defines the closed set of symbolic actions the assessment
// understands, and the value object that carries one action through the
// routing pipeline. Commands are stateless and fire-and-forget: the router
// delivers each at most once and keeps no history.
package command

import "strings"

// Action identifies one symbolic command.
type Action string

const (
	// Global actions, handled by the router itself or the orchestrator.
	ActionHelp   Action = "help"
	ActionRepeat Action = "repeat"
	ActionExit   Action = "exit"

	// Module flow actions, forwarded to the active controller.
	ActionNext      Action = "next"
	ActionBack      Action = "back"
	ActionCorrect   Action = "correct"
	ActionIncorrect Action = "incorrect"
	ActionComplete  Action = "complete"
	ActionSkip      Action = "skip"

	// Module-specific actions carrying a payload in Arg.
	ActionWord        Action = "word"   // toggle a recalled word
	ActionDigits      Action = "digits" // record a digit-span response
	ActionRate        Action = "rate"   // record a symptom rating 0-6
	ActionRecordError Action = "record-error"
)

// Command is a single routed action with an optional payload.
type Command struct {
	Action Action
	Arg    string
}

// Description is a human-readable entry for the help surface.
type Description struct {
	Phrase string
	Help   string
}

// Global reports whether the action is handled outside the active module.
func (a Action) Global() bool {
	switch a {
	case ActionHelp, ActionRepeat, ActionExit:
		return true
	default:
		return false
	}
}

// Known reports whether the action belongs to the closed set.
func (a Action) Known() bool {
	switch a {
	case ActionHelp, ActionRepeat, ActionExit,
		ActionNext, ActionBack, ActionCorrect, ActionIncorrect,
		ActionComplete, ActionSkip,
		ActionWord, ActionDigits, ActionRate, ActionRecordError:
		return true
	default:
		return false
	}
}

// phrases maps spoken keywords to actions. Longer phrases are matched before
// their prefixes so "mark incorrect" never resolves as "mark".
var phrases = []struct {
	text   string
	action Action
}{
	{"show help", ActionHelp},
	{"help", ActionHelp},
	{"repeat", ActionRepeat},
	{"say again", ActionRepeat},
	{"exit exam", ActionExit},
	{"stop exam", ActionExit},
	{"mark incorrect", ActionIncorrect},
	{"incorrect", ActionIncorrect},
	{"mark correct", ActionCorrect},
	{"correct", ActionCorrect},
	{"go back", ActionBack},
	{"back", ActionBack},
	{"next", ActionNext},
	{"continue", ActionNext},
	{"complete module", ActionComplete},
	{"finish module", ActionComplete},
	{"skip module", ActionSkip},
	{"record error", ActionRecordError},
	{"error", ActionRecordError},
}

// ParseUtterance maps a recognized voice phrase to a command. The remainder
// of the utterance after the keyword becomes the payload, so "word elbow"
// toggles the recalled word "elbow". Unrecognized utterances return ok=false;
// the channel is best-effort and callers drop them silently.
func ParseUtterance(utterance string) (Command, bool) {
	heard := strings.ToLower(strings.TrimSpace(utterance))
	if heard == "" {
		return Command{}, false
	}
	for _, p := range phrases {
		if heard == p.text {
			return Command{Action: p.action}, true
		}
	}
	for _, prefix := range []struct {
		text   string
		action Action
	}{
		{"word ", ActionWord},
		{"digits ", ActionDigits},
		{"response ", ActionDigits},
		{"rate ", ActionRate},
	} {
		if strings.HasPrefix(heard, prefix.text) {
			arg := strings.TrimSpace(strings.TrimPrefix(heard, prefix.text))
			if arg == "" {
				return Command{}, false
			}
			return Command{Action: prefix.action, Arg: arg}, true
		}
	}
	return Command{}, false
}
