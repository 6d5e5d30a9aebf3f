// Package router delivers externally-sourced commands to whichever module
// controller is currently live. Routing is best-effort: unknown commands,
// out-of-context commands, and commands arriving with no installed target are
// logged and dropped, never surfaced as errors. The channel may deliver
// utterances the current screen cannot use; that is normal operation.
package router

import (
	"go.uber.org/zap"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/module"
)

// Context tags the screen currently accepting commands.
type Context string

const (
	ContextNone       Context = "none"
	ContextIntro      Context = "intro"
	ContextModule     Context = "module"
	ContextTransition Context = "transition"
	ContextSummary    Context = "summary"
)

// Router owns the single mutable "current controller" slot. It is operated
// exclusively from the session event loop; no internal locking is needed.
type Router struct {
	target      module.Controller
	context     Context
	helpVisible bool
	log         *zap.Logger
}

// New builds a router with no target installed.
func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{context: ContextNone, log: log}
}

// SetTarget atomically replaces the active target and context tag. Installing
// a new target never stacks on the previous one. A nil target means no module
// currently accepts commands.
func (r *Router) SetTarget(target module.Controller, ctx Context) {
	r.target = target
	r.context = ctx
}

// ClearTarget removes the active target, dropping subsequent module commands.
func (r *Router) ClearTarget(ctx Context) {
	r.target = nil
	r.context = ctx
}

// Target returns the installed controller, or nil.
func (r *Router) Target() module.Controller {
	return r.target
}

// CurrentContext returns the active context tag.
func (r *Router) CurrentContext() Context {
	return r.context
}

// HelpVisible reports whether the help overlay is toggled on.
func (r *Router) HelpVisible() bool {
	return r.helpVisible
}

// Route handles one command. Global commands are handled locally; everything
// else is forwarded to the current target's dispatch entry point. Route never
// returns an error and never panics on absent targets.
func (r *Router) Route(cmd command.Command) {
	if !cmd.Action.Known() {
		r.log.Debug("router: dropped unknown command", zap.String("action", string(cmd.Action)))
		return
	}
	if cmd.Action == command.ActionHelp {
		r.helpVisible = !r.helpVisible
		return
	}
	if cmd.Action.Global() {
		// Remaining globals (repeat, exit) are the orchestrator's concern;
		// the router only guarantees they are never mistaken for module
		// commands.
		return
	}
	if r.target == nil {
		r.log.Debug("router: dropped command with no target",
			zap.String("action", string(cmd.Action)),
			zap.String("context", string(r.context)))
		return
	}
	if err := r.target.Dispatch(cmd); err != nil {
		// Dispatch errors are programming faults (sealed result, bad index).
		// Log loudly so integration bugs surface early; the athlete-facing
		// flow continues on the current module.
		r.log.Error("router: dispatch failed",
			zap.String("module", string(r.target.Module())),
			zap.String("action", string(cmd.Action)),
			zap.Error(err))
	}
}

// AvailableCommands produces the help entries for the current context: the
// session-global phrases plus whatever the live controller understands. The
// result is a fresh slice on every call, so the sequence is restartable.
func (r *Router) AvailableCommands() []command.Description {
	entries := []command.Description{
		{Phrase: "help", Help: "toggle this command list"},
		{Phrase: "repeat", Help: "repeat the current prompt"},
		{Phrase: "exit exam", Help: "stop the assessment"},
	}
	if r.target != nil {
		entries = append(entries, r.target.Commands()...)
	}
	return entries
}
