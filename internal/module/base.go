package module

import "github.com/fieldside/sideline/internal/exam"

// Base provides common plumbing for controllers (identity + completion latch).
type Base struct {
	id     exam.ModuleID
	notify func(exam.ModuleID)
	done   bool
}

// NewBase seeds the helper with the module identity and completion hook.
func NewBase(id exam.ModuleID, notify func(exam.ModuleID)) Base {
	if notify == nil {
		notify = func(exam.ModuleID) {}
	}
	return Base{id: id, notify: notify}
}

// Module implements Controller.Module.
func (b *Base) Module() exam.ModuleID {
	return b.id
}

// Done implements Controller.Done.
func (b *Base) Done() bool {
	return b.done
}

// MarkDone latches completion and fires the notify hook exactly once.
func (b *Base) MarkDone() {
	if b.done {
		return
	}
	b.done = true
	b.notify(b.id)
}
