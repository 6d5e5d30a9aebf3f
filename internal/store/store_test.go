package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldside/sideline/internal/exam"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newStoredSession(t *testing.T, id string, createdAt time.Time) *exam.Session {
	t.Helper()
	session, err := exam.NewSession(exam.CreateSessionInput{
		Type:    exam.SessionTypeFull,
		Modules: []exam.ModuleID{exam.ModuleOrientation, exam.ModuleBalance},
	}, func() time.Time { return createdAt }, func() string { return id })
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestSaveAndListSessions(t *testing.T) {
	st := openTestStore(t)
	older := newStoredSession(t, "s-older", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	newer := newStoredSession(t, "s-newer", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	if err := st.SaveSession(older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := st.SaveSession(newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	sessions, err := st.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "s-newer" {
		t.Fatalf("order = [%s, %s], want newest first", sessions[0].ID, sessions[1].ID)
	}
	if len(sessions[0].Modules) != 2 || sessions[0].Modules[0] != "orientation" {
		t.Fatalf("modules = %v", sessions[0].Modules)
	}
}

func TestSaveSessionUpsertsTotalScore(t *testing.T) {
	st := openTestStore(t)
	session := newStoredSession(t, "s-upsert", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	if err := st.SaveSession(session); err != nil {
		t.Fatalf("first save: %v", err)
	}

	proto := exam.Protocol{OrientationQuestions: []string{"venue", "half", "scorer", "team", "result"}}
	res := session.EnsureResult(exam.ModuleOrientation, proto).(*exam.OrientationResult)
	for i := 0; i < 4; i++ {
		res.RecordAnswer(i, true)
	}
	if err := st.SaveSession(session); err != nil {
		t.Fatalf("second save: %v", err)
	}

	sessions, err := st.ListSessions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1 after upsert", len(sessions))
	}
	if sessions[0].TotalScore != 4 {
		t.Fatalf("total score = %d, want 4", sessions[0].TotalScore)
	}
}

func TestSaveModuleResultRoundTrip(t *testing.T) {
	st := openTestStore(t)
	proto := exam.Protocol{Stances: []string{"double", "single", "tandem"}}
	session := newStoredSession(t, "s-module", time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC))
	res := session.EnsureResult(exam.ModuleBalance, proto).(*exam.BalanceResult)
	res.RecordError(0)
	res.RecordError(1)
	res.RecordError(1)
	res.Seal()

	if err := st.SaveModuleResult(session.ID, res); err != nil {
		t.Fatalf("save result: %v", err)
	}

	results, err := st.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Module != "balance" || results[0].Score != 3 {
		t.Fatalf("row = %+v", results[0])
	}
	var decoded exam.BalanceResult
	if err := json.Unmarshal([]byte(results[0].Raw), &decoded); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if len(decoded.Errors) != 3 || decoded.Errors[1] != 2 {
		t.Fatalf("raw errors = %v", decoded.Errors)
	}
}

func TestSaveModuleResultUpserts(t *testing.T) {
	st := openTestStore(t)
	proto := exam.Protocol{Stances: []string{"double"}}
	session := newStoredSession(t, "s-up", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	res := session.EnsureResult(exam.ModuleBalance, proto).(*exam.BalanceResult)
	res.RecordError(0)
	if err := st.SaveModuleResult(session.ID, res); err != nil {
		t.Fatalf("first save: %v", err)
	}
	res.RecordError(0)
	if err := st.SaveModuleResult(session.ID, res); err != nil {
		t.Fatalf("second save: %v", err)
	}
	results, err := st.SessionResults(session.ID)
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if len(results) != 1 || results[0].Score != 2 {
		t.Fatalf("results = %+v", results)
	}
}

func TestSessionResultsEmpty(t *testing.T) {
	st := openTestStore(t)
	results, err := st.SessionResults("missing")
	if err != nil {
		t.Fatalf("session results: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %v", results)
	}
}
