package exam

import (
	"errors"
	"fmt"

	"github.com/fieldside/sideline/internal/scoring"
)

var (
	// ErrResultSealed is returned when a mutator runs against a completed
	// module's result. This is a programming fault, never expected during a
	// correct administration, so callers must not swallow it.
	ErrResultSealed = errors.New("exam: result is sealed")
	// ErrOutOfRange is returned when a mutator addresses a missing item.
	ErrOutOfRange = errors.New("exam: item index out of range")
)

// Result is the tagged-variant record of one module's raw responses. Derived
// scores are always recomputed from the raw fields, never stored divergently.
type Result interface {
	Module() ModuleID
	// Score is the module's sub-score, derived purely from raw responses.
	Score() int
	// Seal freezes the record once the module completes.
	Seal()
	Sealed() bool
}

type sealable struct {
	sealed bool
}

func (s *sealable) Seal()        { s.sealed = true }
func (s *sealable) Sealed() bool { return s.sealed }

func (s *sealable) guard() error {
	if s.sealed {
		return ErrResultSealed
	}
	return nil
}

func newResult(id ModuleID, p Protocol) Result {
	switch id {
	case ModuleSymptom:
		return &SymptomResult{
			Items:   append([]string{}, p.SymptomItems...),
			Ratings: make([]int, len(p.SymptomItems)),
			Rated:   make([]bool, len(p.SymptomItems)),
		}
	case ModuleOrientation:
		return &OrientationResult{
			Questions: append([]string{}, p.OrientationQuestions...),
			Answered:  make([]bool, len(p.OrientationQuestions)),
			Correct:   make([]bool, len(p.OrientationQuestions)),
		}
	case ModuleConcentration:
		return &ConcentrationResult{}
	case ModuleMemory:
		return &MemoryResult{}
	case ModuleDelayedRecall:
		return &DelayedRecallResult{Words: append([]string{}, p.WordList...)}
	case ModuleBalance:
		return &BalanceResult{
			Stances: append([]string{}, p.Stances...),
			Errors:  make([]int, len(p.Stances)),
		}
	case ModuleNeuro:
		return &NeuroResult{
			Items:    append([]string{}, p.NeuroItems...),
			Answered: make([]bool, len(p.NeuroItems)),
			Pass:     make([]bool, len(p.NeuroItems)),
		}
	default:
		panic(fmt.Sprintf("exam: no result variant for module %q", id))
	}
}

// SymptomResult records 0-6 severity ratings for the symptom checklist.
type SymptomResult struct {
	sealable
	Items   []string `json:"items"`
	Ratings []int    `json:"ratings"`
	Rated   []bool   `json:"rated"`
}

func (r *SymptomResult) Module() ModuleID { return ModuleSymptom }

// RecordRating stores one symptom's severity rating, clamped into 0-6.
func (r *SymptomResult) RecordRating(item, rating int) error {
	if err := r.guard(); err != nil {
		return err
	}
	if item < 0 || item >= len(r.Items) {
		return fmt.Errorf("%w: symptom %d", ErrOutOfRange, item)
	}
	if rating < 0 {
		rating = 0
	}
	if rating > scoring.MaxSymptomRating {
		rating = scoring.MaxSymptomRating
	}
	r.Ratings[item] = rating
	r.Rated[item] = true
	return nil
}

// Reported is the count of symptoms rated above zero.
func (r *SymptomResult) Reported() int {
	reported, _ := scoring.Symptoms(r.Ratings)
	return reported
}

// Score is the symptom severity total.
func (r *SymptomResult) Score() int {
	_, severity := scoring.Symptoms(r.Ratings)
	return severity
}

// OrientationResult records per-question correctness for the fixed prompts.
type OrientationResult struct {
	sealable
	Questions []string `json:"questions"`
	Answered  []bool   `json:"answered"`
	Correct   []bool   `json:"correct"`
}

func (r *OrientationResult) Module() ModuleID { return ModuleOrientation }

// RecordAnswer marks one question answered, correctly or not. Marking the
// same question again overwrites the previous judgment.
func (r *OrientationResult) RecordAnswer(question int, correct bool) error {
	if err := r.guard(); err != nil {
		return err
	}
	if question < 0 || question >= len(r.Questions) {
		return fmt.Errorf("%w: question %d", ErrOutOfRange, question)
	}
	r.Answered[question] = true
	r.Correct[question] = correct
	return nil
}

// AnsweredCount reports how many questions have a recorded judgment.
func (r *OrientationResult) AnsweredCount() int {
	n := 0
	for _, a := range r.Answered {
		if a {
			n++
		}
	}
	return n
}

func (r *OrientationResult) Score() int {
	return scoring.Orientation(r.Correct)
}

// ConcentrationResult records the digits-backwards attempts and the
// months-in-reverse outcome. Only attempted sequences are stored; sequences
// never presented do not appear in the arrays.
type ConcentrationResult struct {
	sealable
	Sequences     []string `json:"sequences"`
	Responses     []string `json:"responses"`
	Matches       []bool   `json:"matches"`
	MonthsAsked   bool     `json:"months_asked"`
	MonthsCorrect bool     `json:"months_correct"`
}

func (r *ConcentrationResult) Module() ModuleID { return ModuleConcentration }

// RecordDigitAttempt stores one presented sequence with the athlete's
// response and reports whether it matched the exact reverse.
func (r *ConcentrationResult) RecordDigitAttempt(presented, response string) (bool, error) {
	if err := r.guard(); err != nil {
		return false, err
	}
	match := scoring.DigitSpanMatch(presented, response)
	r.Sequences = append(r.Sequences, scoring.NormalizeDigits(presented))
	r.Responses = append(r.Responses, scoring.NormalizeDigits(response))
	r.Matches = append(r.Matches, match)
	return match, nil
}

// RecordMonths stores the months-in-reverse outcome.
func (r *ConcentrationResult) RecordMonths(correct bool) error {
	if err := r.guard(); err != nil {
		return err
	}
	r.MonthsAsked = true
	r.MonthsCorrect = correct
	return nil
}

// DigitScore is the running count of matched sequences.
func (r *ConcentrationResult) DigitScore() int {
	n := 0
	for _, m := range r.Matches {
		if m {
			n++
		}
	}
	return n
}

// ConsecutiveMisses counts the failed attempts at the tail of the record.
func (r *ConcentrationResult) ConsecutiveMisses() int {
	n := 0
	for i := len(r.Matches) - 1; i >= 0; i-- {
		if r.Matches[i] {
			break
		}
		n++
	}
	return n
}

func (r *ConcentrationResult) Score() int {
	score := r.DigitScore()
	if r.MonthsCorrect {
		score++
	}
	return score
}

// MemoryTrial is one presentation of the word list with the athlete's recall.
type MemoryTrial struct {
	Words    []string `json:"words"`
	Recalled []string `json:"recalled"`
}

// MemoryResult records the immediate-memory trials. Every trial presents the
// same list; the first trial's list is canonical for delayed recall.
type MemoryResult struct {
	sealable
	Trials []MemoryTrial `json:"trials"`
}

func (r *MemoryResult) Module() ModuleID { return ModuleMemory }

// StartTrial opens the next trial with the presented word list.
func (r *MemoryResult) StartTrial(words []string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if len(r.Trials) >= scoring.MemoryTrials {
		return fmt.Errorf("%w: trial %d", ErrOutOfRange, len(r.Trials))
	}
	r.Trials = append(r.Trials, MemoryTrial{Words: append([]string{}, words...)})
	return nil
}

// ToggleRecalled adds a word to the trial's recall set, or removes it when
// already present.
func (r *MemoryResult) ToggleRecalled(trial int, word string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if trial < 0 || trial >= len(r.Trials) {
		return fmt.Errorf("%w: trial %d", ErrOutOfRange, trial)
	}
	t := &r.Trials[trial]
	norm := scoring.NormalizeWord(word)
	for i, w := range t.Recalled {
		if scoring.NormalizeWord(w) == norm {
			t.Recalled = append(t.Recalled[:i], t.Recalled[i+1:]...)
			return nil
		}
	}
	t.Recalled = append(t.Recalled, word)
	return nil
}

// CanonicalWords is the word list from the first trial, the source of truth
// for delayed recall even if later trials diverge.
func (r *MemoryResult) CanonicalWords() []string {
	if len(r.Trials) == 0 {
		return nil
	}
	return append([]string{}, r.Trials[0].Words...)
}

// TrialScore is the recall intersection for one trial.
func (r *MemoryResult) TrialScore(trial int) int {
	if trial < 0 || trial >= len(r.Trials) {
		return 0
	}
	return scoring.WordRecall(r.Trials[trial].Words, r.Trials[trial].Recalled)
}

func (r *MemoryResult) Score() int {
	total := 0
	for i := range r.Trials {
		total += r.TrialScore(i)
	}
	return total
}

// DelayedRecallResult records the delayed recall attempt against the
// canonical word list.
type DelayedRecallResult struct {
	sealable
	Words    []string `json:"words"`
	Recalled []string `json:"recalled"`
}

func (r *DelayedRecallResult) Module() ModuleID { return ModuleDelayedRecall }

// SetWordList pins the canonical list. Ignored once recall has begun so a
// late re-activation cannot invalidate recorded responses.
func (r *DelayedRecallResult) SetWordList(words []string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if len(r.Recalled) > 0 {
		return nil
	}
	r.Words = append([]string{}, words...)
	return nil
}

// ToggleRecalled adds or removes a word from the recall set.
func (r *DelayedRecallResult) ToggleRecalled(word string) error {
	if err := r.guard(); err != nil {
		return err
	}
	norm := scoring.NormalizeWord(word)
	for i, w := range r.Recalled {
		if scoring.NormalizeWord(w) == norm {
			r.Recalled = append(r.Recalled[:i], r.Recalled[i+1:]...)
			return nil
		}
	}
	r.Recalled = append(r.Recalled, word)
	return nil
}

func (r *DelayedRecallResult) Score() int {
	return scoring.WordRecall(r.Words, r.Recalled)
}

// BalanceResult records counted error events per stance trial.
type BalanceResult struct {
	sealable
	Stances []string `json:"stances"`
	Errors  []int    `json:"errors"`
}

func (r *BalanceResult) Module() ModuleID { return ModuleBalance }

// RecordError counts one error event during a stance's observation window.
func (r *BalanceResult) RecordError(stance int) error {
	if err := r.guard(); err != nil {
		return err
	}
	if stance < 0 || stance >= len(r.Stances) {
		return fmt.Errorf("%w: stance %d", ErrOutOfRange, stance)
	}
	r.Errors[stance]++
	return nil
}

// TrialScore is the clamped error count for one stance.
func (r *BalanceResult) TrialScore(stance int) int {
	if stance < 0 || stance >= len(r.Errors) {
		return 0
	}
	return scoring.BalanceTrial(r.Errors[stance])
}

func (r *BalanceResult) Score() int {
	return scoring.BalanceTotal(r.Errors)
}

// NeuroResult records pass/fail observations for the neurological screen.
type NeuroResult struct {
	sealable
	Items    []string `json:"items"`
	Answered []bool   `json:"answered"`
	Pass     []bool   `json:"pass"`
}

func (r *NeuroResult) Module() ModuleID { return ModuleNeuro }

// RecordOutcome marks one screen item as passed or failed.
func (r *NeuroResult) RecordOutcome(item int, pass bool) error {
	if err := r.guard(); err != nil {
		return err
	}
	if item < 0 || item >= len(r.Items) {
		return fmt.Errorf("%w: item %d", ErrOutOfRange, item)
	}
	r.Answered[item] = true
	r.Pass[item] = pass
	return nil
}

// AllAnswered reports whether every screen item has an outcome.
func (r *NeuroResult) AllAnswered() bool {
	for _, a := range r.Answered {
		if !a {
			return false
		}
	}
	return len(r.Answered) > 0
}

func (r *NeuroResult) Score() int {
	n := 0
	for i, p := range r.Pass {
		if p && r.Answered[i] {
			n++
		}
	}
	return n
}
