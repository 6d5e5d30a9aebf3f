package commandbridge

import (
	"testing"
	"time"

	"github.com/fieldside/sideline/internal/command"
)

func TestEnvelopeNormalizeDefaultsVersion(t *testing.T) {
	env := Envelope{UtteranceID: "  u-1  ", Heard: " Next ", Action: " NEXT "}
	env.Normalize()
	if env.Version != EnvelopeSchemaVersion {
		t.Fatalf("version = %d", env.Version)
	}
	if env.UtteranceID != "u-1" || env.Heard != "Next" || env.Action != "next" {
		t.Fatalf("normalized envelope = %+v", env)
	}
}

func TestEnvelopeCommandPrefersExplicitAction(t *testing.T) {
	env := Envelope{Action: "rate", Arg: "4", Heard: "mark correct"}
	cmd, ok := env.Command()
	if !ok || cmd.Action != command.ActionRate || cmd.Arg != "4" {
		t.Fatalf("command = %+v, ok=%v", cmd, ok)
	}
}

func TestEnvelopeCommandFallsBackToHeard(t *testing.T) {
	env := Envelope{Heard: "word penny"}
	cmd, ok := env.Command()
	if !ok || cmd.Action != command.ActionWord || cmd.Arg != "penny" {
		t.Fatalf("command = %+v, ok=%v", cmd, ok)
	}
}

func TestStampServerTimeUsesUTC(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	env := Envelope{}
	env.StampServerTime(time.Date(2026, 8, 30, 16, 0, 0, 0, loc))
	if env.ServerTime.Location() != time.UTC {
		t.Fatalf("server time not UTC: %v", env.ServerTime)
	}
}
