package module

import (
	"go.uber.org/zap"

	"github.com/fieldside/sideline/internal/exam"
)

// Runtime carries shared dependencies into every controller factory.
type Runtime struct {
	Session  *exam.Session
	Protocol exam.Protocol
	// Notify signals that the module considers itself complete. The
	// orchestrator treats it as an asynchronous completion event; duplicate
	// signals are absorbed downstream.
	Notify func(exam.ModuleID)
	Log    *zap.Logger
}

// NewRuntime builds a runtime, substituting safe no-ops for absent hooks.
func NewRuntime(session *exam.Session, protocol exam.Protocol, notify func(exam.ModuleID), log *zap.Logger) *Runtime {
	if notify == nil {
		notify = func(exam.ModuleID) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runtime{Session: session, Protocol: protocol, Notify: notify, Log: log}
}
