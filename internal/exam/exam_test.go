package exam

import (
	"errors"
	"testing"
	"time"
)

var testProtocol = Protocol{
	WordList:             []string{"finger", "penny", "blanket", "lemon", "insect"},
	DigitSequences:       []string{"493", "3814", "62971", "718462"},
	OrientationQuestions: []string{"venue", "half", "scorer", "team", "result"},
	SymptomItems:         []string{"headache", "nausea", "dizziness"},
	Stances:              []string{"double", "single", "tandem"},
	NeuroItems:           []string{"neck", "reading", "gaze", "finger-nose", "gait"},
}

func newTestSession(t *testing.T, modules ...ModuleID) *Session {
	t.Helper()
	if len(modules) == 0 {
		modules = []ModuleID{ModuleOrientation, ModuleMemory, ModuleDelayedRecall}
	}
	fixed := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	s, err := NewSession(CreateSessionInput{Type: SessionTypeFull, Modules: modules},
		func() time.Time { return fixed },
		func() string { return "session-test" })
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession(CreateSessionInput{Type: "partial", Modules: []ModuleID{ModuleMemory}}, nil, nil); !errors.Is(err, ErrUnknownSessionType) {
		t.Fatalf("unknown type error = %v", err)
	}
	if _, err := NewSession(CreateSessionInput{Type: SessionTypeFull}, nil, nil); !errors.Is(err, ErrEmptyBattery) {
		t.Fatalf("empty battery error = %v", err)
	}
	if _, err := NewSession(CreateSessionInput{Type: SessionTypeFull, Modules: []ModuleID{"juggling"}}, nil, nil); err == nil {
		t.Fatalf("invalid module accepted")
	}
	if _, err := NewSession(CreateSessionInput{Type: SessionTypeFull, Modules: []ModuleID{ModuleMemory, ModuleMemory}}, nil, nil); err == nil {
		t.Fatalf("duplicate module accepted")
	}
}

func TestNewSessionUsesInjectedClockAndID(t *testing.T) {
	s := newTestSession(t)
	if s.ID != "session-test" {
		t.Fatalf("session ID = %q", s.ID)
	}
	want := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	if !s.CreatedAt.Equal(want) {
		t.Fatalf("created at = %v", s.CreatedAt)
	}
}

func TestEnsureResultCreatesOnce(t *testing.T) {
	s := newTestSession(t)
	first := s.EnsureResult(ModuleOrientation, testProtocol)
	second := s.EnsureResult(ModuleOrientation, testProtocol)
	if first != second {
		t.Fatalf("EnsureResult returned a new record on second call")
	}
	if _, ok := s.Result(ModuleMemory); ok {
		t.Fatalf("unactivated module already has a result")
	}
}

func TestSealedResultRejectsMutation(t *testing.T) {
	s := newTestSession(t)
	r := s.EnsureResult(ModuleOrientation, testProtocol).(*OrientationResult)
	if err := r.RecordAnswer(0, true); err != nil {
		t.Fatalf("record before seal: %v", err)
	}
	r.Seal()
	if err := r.RecordAnswer(1, true); !errors.Is(err, ErrResultSealed) {
		t.Fatalf("record after seal = %v, want ErrResultSealed", err)
	}
	if r.Score() != 1 {
		t.Fatalf("sealed score = %d, want 1", r.Score())
	}
}

func TestOrientationResultScore(t *testing.T) {
	s := newTestSession(t)
	r := s.EnsureResult(ModuleOrientation, testProtocol).(*OrientationResult)
	judgments := []bool{true, true, false, true, true}
	for i, correct := range judgments {
		if err := r.RecordAnswer(i, correct); err != nil {
			t.Fatalf("record answer %d: %v", i, err)
		}
	}
	if r.Score() != 4 {
		t.Fatalf("orientation score = %d, want 4", r.Score())
	}
	if r.AnsweredCount() != 5 {
		t.Fatalf("answered count = %d, want 5", r.AnsweredCount())
	}
	if err := r.RecordAnswer(9, true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("out-of-range answer = %v", err)
	}
}

func TestConcentrationResult(t *testing.T) {
	r := &ConcentrationResult{}
	match, err := r.RecordDigitAttempt("4 2 7", "724")
	if err != nil || !match {
		t.Fatalf("reversed response: match=%v err=%v", match, err)
	}
	match, err = r.RecordDigitAttempt("8153", "531")
	if err != nil || match {
		t.Fatalf("truncated response: match=%v err=%v", match, err)
	}
	if r.DigitScore() != 1 {
		t.Fatalf("digit score = %d, want 1", r.DigitScore())
	}
	if r.ConsecutiveMisses() != 1 {
		t.Fatalf("consecutive misses = %d, want 1", r.ConsecutiveMisses())
	}
	if err := r.RecordMonths(true); err != nil {
		t.Fatalf("record months: %v", err)
	}
	if r.Score() != 2 {
		t.Fatalf("concentration score = %d, want 2", r.Score())
	}
}

func TestConcentrationConsecutiveMissesResetOnMatch(t *testing.T) {
	r := &ConcentrationResult{}
	r.RecordDigitAttempt("493", "000")
	r.RecordDigitAttempt("3814", "4183")
	if r.ConsecutiveMisses() != 0 {
		t.Fatalf("misses after match = %d, want 0", r.ConsecutiveMisses())
	}
}

func TestMemoryResultTrials(t *testing.T) {
	r := &MemoryResult{}
	words := testProtocol.WordList
	for i := 0; i < 3; i++ {
		if err := r.StartTrial(words); err != nil {
			t.Fatalf("start trial %d: %v", i, err)
		}
	}
	if err := r.StartTrial(words); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("fourth trial = %v", err)
	}
	if err := r.ToggleRecalled(0, "Penny"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := r.ToggleRecalled(0, "blanket"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if r.TrialScore(0) != 2 {
		t.Fatalf("trial score = %d, want 2", r.TrialScore(0))
	}
	// Toggling the same word again removes it.
	if err := r.ToggleRecalled(0, "penny"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if r.TrialScore(0) != 1 {
		t.Fatalf("trial score after toggle off = %d, want 1", r.TrialScore(0))
	}
	if r.Score() != 1 {
		t.Fatalf("memory score = %d, want 1", r.Score())
	}
}

func TestMemoryWordListCanonical(t *testing.T) {
	s := newTestSession(t)
	mem := s.EnsureResult(ModuleMemory, testProtocol).(*MemoryResult)
	custom := []string{"candle", "paper", "sugar", "sandwich", "wagon"}
	if err := mem.StartTrial(custom); err != nil {
		t.Fatalf("start trial: %v", err)
	}
	got := s.MemoryWordList(testProtocol)
	if len(got) != len(custom) || got[0] != "candle" {
		t.Fatalf("canonical list = %v, want first memory trial's list", got)
	}
}

func TestMemoryWordListFallsBackToProtocol(t *testing.T) {
	s := newTestSession(t)
	got := s.MemoryWordList(testProtocol)
	if len(got) != len(testProtocol.WordList) || got[0] != "finger" {
		t.Fatalf("fallback list = %v", got)
	}
}

func TestDelayedRecallSetWordListIgnoredOnceRecallBegan(t *testing.T) {
	r := &DelayedRecallResult{}
	if err := r.SetWordList([]string{"finger", "penny"}); err != nil {
		t.Fatalf("set list: %v", err)
	}
	if err := r.ToggleRecalled("penny"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := r.SetWordList([]string{"candle", "paper"}); err != nil {
		t.Fatalf("late set list: %v", err)
	}
	if r.Words[0] != "finger" {
		t.Fatalf("word list replaced after recall began: %v", r.Words)
	}
	if r.Score() != 1 {
		t.Fatalf("delayed recall score = %d, want 1", r.Score())
	}
}

func TestBalanceResult(t *testing.T) {
	s := newTestSession(t, ModuleBalance)
	r := s.EnsureResult(ModuleBalance, testProtocol).(*BalanceResult)
	for i := 0; i < 3; i++ {
		if err := r.RecordError(1); err != nil {
			t.Fatalf("record error: %v", err)
		}
	}
	if r.TrialScore(1) != 3 {
		t.Fatalf("trial score = %d, want 3", r.TrialScore(1))
	}
	// Per-trial score clamps even when more events were counted.
	for i := 0; i < 20; i++ {
		r.RecordError(2)
	}
	if r.TrialScore(2) != 10 {
		t.Fatalf("clamped trial score = %d, want 10", r.TrialScore(2))
	}
	if r.Score() != 13 {
		t.Fatalf("balance score = %d, want 13", r.Score())
	}
	if err := r.RecordError(7); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("out-of-range stance = %v", err)
	}
}

func TestSymptomResult(t *testing.T) {
	s := newTestSession(t, ModuleSymptom)
	r := s.EnsureResult(ModuleSymptom, testProtocol).(*SymptomResult)
	if err := r.RecordRating(0, 3); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := r.RecordRating(1, 9); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if r.Reported() != 2 {
		t.Fatalf("reported = %d, want 2", r.Reported())
	}
	if r.Score() != 9 {
		t.Fatalf("severity = %d, want 9 (3 + clamped 6)", r.Score())
	}
}

func TestNeuroResult(t *testing.T) {
	s := newTestSession(t, ModuleNeuro)
	r := s.EnsureResult(ModuleNeuro, testProtocol).(*NeuroResult)
	for i := range testProtocol.NeuroItems {
		if err := r.RecordOutcome(i, i != 2); err != nil {
			t.Fatalf("record outcome %d: %v", i, err)
		}
	}
	if !r.AllAnswered() {
		t.Fatalf("expected all items answered")
	}
	if r.Score() != 4 {
		t.Fatalf("neuro score = %d, want 4", r.Score())
	}
}

func TestTotalScore(t *testing.T) {
	s := newTestSession(t, ModuleOrientation, ModuleBalance)
	o := s.EnsureResult(ModuleOrientation, testProtocol).(*OrientationResult)
	o.RecordAnswer(0, true)
	o.RecordAnswer(1, true)
	b := s.EnsureResult(ModuleBalance, testProtocol).(*BalanceResult)
	b.RecordError(0)
	if s.TotalScore() != 3 {
		t.Fatalf("total score = %d, want 3", s.TotalScore())
	}
}
