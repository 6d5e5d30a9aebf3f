// Package exam defines the entities for one assessment administration: the
// session, its ordered module battery, and the per-module result records.
//
// A Session represents a single sitting with one athlete. Module results are
// created when a module first becomes active, mutated only by that module's
// controller, and sealed once the module completes.
package exam

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ModuleID identifies one discrete sub-test of the assessment.
type ModuleID string

const (
	ModuleSymptom       ModuleID = "symptom"
	ModuleOrientation   ModuleID = "orientation"
	ModuleConcentration ModuleID = "concentration"
	ModuleMemory        ModuleID = "memory"
	ModuleDelayedRecall ModuleID = "delayed-recall"
	ModuleBalance       ModuleID = "balance"
	ModuleNeuro         ModuleID = "neuro"
)

// IsValid reports whether the module identifier is part of the battery.
func (m ModuleID) IsValid() bool {
	switch m {
	case ModuleSymptom, ModuleOrientation, ModuleConcentration, ModuleMemory,
		ModuleDelayedRecall, ModuleBalance, ModuleNeuro:
		return true
	default:
		return false
	}
}

// Title returns the examiner-facing name of the module.
func (m ModuleID) Title() string {
	switch m {
	case ModuleSymptom:
		return "Symptom Evaluation"
	case ModuleOrientation:
		return "Orientation"
	case ModuleConcentration:
		return "Concentration"
	case ModuleMemory:
		return "Immediate Memory"
	case ModuleDelayedRecall:
		return "Delayed Recall"
	case ModuleBalance:
		return "Balance Examination"
	case ModuleNeuro:
		return "Neurological Screen"
	default:
		return string(m)
	}
}

// SessionType selects which module battery a session administers.
type SessionType string

const (
	// SessionTypeFull is the complete sideline battery.
	SessionTypeFull SessionType = "full"
	// SessionTypeEmergency is the abbreviated on-field battery.
	SessionTypeEmergency SessionType = "emergency"
)

var (
	// ErrEmptyBattery indicates a session was created with no modules.
	ErrEmptyBattery = errors.New("exam: module battery is empty")
	// ErrUnknownSessionType indicates an unsupported session type.
	ErrUnknownSessionType = errors.New("exam: unknown session type")
)

// Protocol carries the fixed administration content a battery presents:
// question texts, the memory word list, the digit sequences, stances, and
// checklist items. Sourced from configuration with compiled-in defaults.
type Protocol struct {
	WordList             []string
	DigitSequences       []string
	OrientationQuestions []string
	SymptomItems         []string
	Stances              []string
	NeuroItems           []string
}

// Session is one complete administration of the ordered battery.
type Session struct {
	ID        string
	Type      SessionType
	CreatedAt time.Time
	Modules   []ModuleID
	Results   map[ModuleID]Result
}

// CreateSessionInput describes the metadata needed to create a session.
type CreateSessionInput struct {
	Type    SessionType
	Modules []ModuleID
}

// NewSession builds a session with a generated ID and creation timestamp.
// The clock and ID generator are injectable for tests.
func NewSession(input CreateSessionInput, now func() time.Time, idGen func() string) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGen == nil {
		idGen = uuid.NewString
	}
	switch input.Type {
	case SessionTypeFull, SessionTypeEmergency:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSessionType, input.Type)
	}
	if len(input.Modules) == 0 {
		return nil, ErrEmptyBattery
	}
	seen := make(map[ModuleID]bool, len(input.Modules))
	for _, id := range input.Modules {
		if !id.IsValid() {
			return nil, fmt.Errorf("exam: unknown module %q", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("exam: duplicate module %q in battery", id)
		}
		seen[id] = true
	}
	return &Session{
		ID:        idGen(),
		Type:      input.Type,
		CreatedAt: now().UTC(),
		Modules:   append([]ModuleID{}, input.Modules...),
		Results:   map[ModuleID]Result{},
	}, nil
}

// Result returns the result record for a module, if one exists yet.
func (s *Session) Result(id ModuleID) (Result, bool) {
	r, ok := s.Results[id]
	return r, ok
}

// EnsureResult returns the module's result record, creating an empty one from
// the protocol on first activation.
func (s *Session) EnsureResult(id ModuleID, p Protocol) Result {
	if r, ok := s.Results[id]; ok {
		return r
	}
	r := newResult(id, p)
	s.Results[id] = r
	return r
}

// MemoryWordList returns the canonical word list for delayed recall: the list
// presented in the first immediate-memory trial, falling back to the protocol
// list when no memory trial has run.
func (s *Session) MemoryWordList(p Protocol) []string {
	if r, ok := s.Results[ModuleMemory]; ok {
		if mem, ok := r.(*MemoryResult); ok {
			if words := mem.CanonicalWords(); len(words) > 0 {
				return words
			}
		}
	}
	return append([]string{}, p.WordList...)
}

// TotalScore sums the sub-scores of every recorded module result.
func (s *Session) TotalScore() int {
	total := 0
	for _, r := range s.Results {
		total += r.Score()
	}
	return total
}
