package orchestrator

import "github.com/fieldside/sideline/internal/exam"

// indexNotStarted marks a sequencer that has not begun; the terminal state is
// index == len(order).
const indexNotStarted = -1

// Sequencer owns the ordered module list for a session, the set of completed
// modules, and the index of the currently active module. It is operated only
// from the session event loop.
type Sequencer struct {
	order     []exam.ModuleID
	completed map[exam.ModuleID]struct{}
	index     int
}

// NewSequencer fixes the module order for the session.
func NewSequencer(order []exam.ModuleID) *Sequencer {
	return &Sequencer{
		order:     append([]exam.ModuleID{}, order...),
		completed: map[exam.ModuleID]struct{}{},
		index:     indexNotStarted,
	}
}

// Start activates the first module. With an empty order the sequencer moves
// directly to the terminal state and ok is false.
func (s *Sequencer) Start() (exam.ModuleID, bool) {
	if len(s.order) == 0 {
		s.index = 0
		return "", false
	}
	s.index = 0
	return s.order[0], true
}

// Current returns the active module, if any.
func (s *Sequencer) Current() (exam.ModuleID, bool) {
	if s.index < 0 || s.index >= len(s.order) {
		return "", false
	}
	return s.order[s.index], true
}

// CompleteCurrent inserts the active module into the completed set. It is
// idempotent: a duplicate completion signal changes nothing and returns
// false, so advancement never double-fires from a stale notification.
func (s *Sequencer) CompleteCurrent() bool {
	id, ok := s.Current()
	if !ok {
		return false
	}
	if _, done := s.completed[id]; done {
		return false
	}
	s.completed[id] = struct{}{}
	return true
}

// Advance moves to the next module. ok is false when the flow is finished,
// in which case the index rests at the terminal value.
func (s *Sequencer) Advance() (exam.ModuleID, bool) {
	if s.index+1 < len(s.order) {
		s.index++
		return s.order[s.index], true
	}
	s.index = len(s.order)
	return "", false
}

// Retreat moves back one module. It never goes below the first module and
// never un-completes anything.
func (s *Sequencer) Retreat() (exam.ModuleID, bool) {
	if s.index <= 0 {
		return "", false
	}
	s.index--
	return s.order[s.index], true
}

// Completed reports whether the given module has finished.
func (s *Sequencer) Completed(id exam.ModuleID) bool {
	_, ok := s.completed[id]
	return ok
}

// CompletedCount is the size of the completed set.
func (s *Sequencer) CompletedCount() int {
	return len(s.completed)
}

// Len is the battery length.
func (s *Sequencer) Len() int {
	return len(s.order)
}

// Finished reports whether the index has reached the terminal state.
func (s *Sequencer) Finished() bool {
	return s.index >= len(s.order) && s.index != indexNotStarted
}

// Index returns the raw module index: -1 before start, the terminal length
// when finished.
func (s *Sequencer) Index() int {
	return s.index
}
