// Package orchestrator sequences the assessment battery for one session. It
// owns the module sequencer, keeps the command router's target synchronized
// with the active module, and mediates the asynchronous show/hide handshake
// with the display subsystem.
//
// All state lives on a single event loop: external signals (commands, module
// completions, display confirmations) are queued as events and handled one at
// a time, so no two transitions ever interleave.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldside/sideline/internal/command"
	"github.com/fieldside/sideline/internal/exam"
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/router"
)

const (
	defaultConfirmTimeout = 5 * time.Second
	eventQueueCapacity    = 64
)

// DisplayPort is the narrow interface to the external display subsystem.
// RequestShow and RequestHide return once the request is issued; the matching
// confirmation arrives later as a DisplayShownEvent or DisplayHiddenEvent.
type DisplayPort interface {
	RequestShow(id exam.ModuleID) error
	RequestHide() error
	IsShown() bool
	Render(snap Snapshot)
}

// ResultStore receives completed results for persistence. It is written at
// module completion and session end, never read back mid-session.
type ResultStore interface {
	SaveModuleResult(sessionID string, result exam.Result) error
	SaveSession(session *exam.Session) error
}

// Recorder appends human-readable administration notes (the transcript).
type Recorder interface {
	Note(format string, args ...any)
}

type pendingRequest int

const (
	pendingNone pendingRequest = iota
	pendingShow
	pendingHide
)

// Orchestrator composes the sequencer, router, and controllers into one
// session lifecycle.
type Orchestrator struct {
	session  *exam.Session
	protocol exam.Protocol
	seq      *Sequencer
	router   *router.Router
	registry *module.Registry
	display  DisplayPort
	store    ResultStore
	recorder Recorder
	log      *zap.Logger

	phase          Phase
	active         module.Controller
	pending        pendingRequest
	retried        bool
	generation     int
	timer          *time.Timer
	confirmTimeout time.Duration
	observedDone   int
	exiting        bool

	events chan Event
}

// Option customizes orchestrator construction.
type Option func(*Orchestrator)

// WithConfirmTimeout overrides the bounded wait for display confirmations.
func WithConfirmTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.confirmTimeout = d
		}
	}
}

// WithRecorder attaches an administration transcript.
func WithRecorder(rec Recorder) Option {
	return func(o *Orchestrator) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithLogger injects the session logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) Note(string, ...any) {}

type nopStore struct{}

func (nopStore) SaveModuleResult(string, exam.Result) error { return nil }
func (nopStore) SaveSession(*exam.Session) error            { return nil }

// New wires an orchestrator to its collaborators. The store may be nil when
// persistence is disabled.
func New(session *exam.Session, protocol exam.Protocol, rt *router.Router, registry *module.Registry, display DisplayPort, store ResultStore, opts ...Option) (*Orchestrator, error) {
	if session == nil {
		return nil, fmt.Errorf("orchestrator: session is required")
	}
	if rt == nil {
		return nil, fmt.Errorf("orchestrator: router is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("orchestrator: module registry is required")
	}
	if display == nil {
		return nil, fmt.Errorf("orchestrator: display port is required")
	}
	if store == nil {
		store = nopStore{}
	}
	o := &Orchestrator{
		session:        session,
		protocol:       protocol,
		seq:            NewSequencer(session.Modules),
		router:         rt,
		registry:       registry,
		display:        display,
		store:          store,
		recorder:       nopRecorder{},
		log:            zap.NewNop(),
		phase:          PhaseNotStarted,
		confirmTimeout: defaultConfirmTimeout,
		events:         make(chan Event, eventQueueCapacity),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Phase returns the current lifecycle state.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// Sequencer exposes the module sequencer for read-only inspection.
func (o *Orchestrator) Sequencer() *Sequencer {
	return o.seq
}

// Submit queues an external event for the session loop. It never blocks; if
// the queue is full the event is dropped and logged, matching the channel's
// best-effort delivery contract.
func (o *Orchestrator) Submit(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.log.Warn("orchestrator: event queue full, dropping event",
			zap.String("event", fmt.Sprintf("%T", ev)))
	}
}

// Run starts the flow and processes events until the session finishes or the
// context is cancelled. Cancellation is honored from any state, including
// mid-transition, with a best-effort hide before returning.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.start()
	for {
		select {
		case <-ctx.Done():
			o.beginExit()
			return ctx.Err()
		case ev := <-o.events:
			o.handle(ev)
			if o.phase == PhaseFinished {
				return nil
			}
		}
	}
}

func (o *Orchestrator) start() {
	if o.phase != PhaseNotStarted {
		return
	}
	o.recorder.Note("session %s started (%s battery, %d modules)",
		o.session.ID, o.session.Type, o.seq.Len())
	id, ok := o.seq.Start()
	if !ok {
		o.finish()
		return
	}
	o.activateModule(id)
}

func (o *Orchestrator) handle(ev Event) {
	switch ev := ev.(type) {
	case CommandEvent:
		o.handleCommand(ev.Cmd)
	case CompletionEvent:
		o.handleCompletion(ev.Module)
	case DisplayShownEvent:
		o.handleShown()
	case DisplayHiddenEvent:
		o.handleHidden()
	case ExitEvent:
		o.beginExit()
	case displayTimeoutEvent:
		o.handleTimeout(ev.generation)
	default:
		o.log.Warn("orchestrator: unhandled event", zap.String("event", fmt.Sprintf("%T", ev)))
	}
	o.render()
}

func (o *Orchestrator) handleCommand(cmd command.Command) {
	switch cmd.Action {
	case command.ActionExit:
		o.beginExit()
	case command.ActionRepeat:
		o.recorder.Note("prompt repeated on request")
	default:
		o.router.Route(cmd)
	}
}

// handleCompletion applies one module-completion signal. The sequencer's
// completed set is idempotent and the observed-count delta guard ensures a
// burst of duplicate signals advances the flow at most once per real change.
func (o *Orchestrator) handleCompletion(id exam.ModuleID) {
	if o.phase != PhaseModuleActive {
		o.log.Debug("orchestrator: completion outside active phase absorbed",
			zap.String("module", string(id)), zap.String("phase", o.phase.String()))
		return
	}
	current, ok := o.seq.Current()
	if !ok || current != id {
		o.log.Debug("orchestrator: stale completion absorbed", zap.String("module", string(id)))
		return
	}
	if !o.seq.CompleteCurrent() {
		return
	}
	delta := o.seq.CompletedCount() - o.observedDone
	o.observedDone = o.seq.CompletedCount()
	if delta <= 0 {
		return
	}

	result, ok := o.session.Result(id)
	if ok {
		result.Seal()
		if err := o.store.SaveModuleResult(o.session.ID, result); err != nil {
			o.log.Error("orchestrator: persist module result failed",
				zap.String("module", string(id)), zap.Error(err))
		}
		o.recorder.Note("module %s completed, sub-score %d", id, result.Score())
	}

	o.router.ClearTarget(router.ContextTransition)
	o.active = nil
	o.phase = PhaseTransitioning
	o.requestHide()
}

func (o *Orchestrator) handleShown() {
	if o.pending != pendingShow {
		return
	}
	o.clearPending()
}

func (o *Orchestrator) handleHidden() {
	if o.pending == pendingHide {
		o.clearPending()
		if o.exiting {
			o.finish()
			return
		}
		next, ok := o.seq.Advance()
		if !ok {
			o.finish()
			return
		}
		o.activateModule(next)
		return
	}
	// Unsolicited hide: the surface was dismissed by outside action. Resume
	// the current module's presentation rather than losing sequencing.
	if o.phase != PhaseModuleActive {
		return
	}
	if id, ok := o.seq.Current(); ok {
		o.log.Warn("orchestrator: display dismissed externally, resuming module",
			zap.String("module", string(id)))
		o.requestShow(id)
	}
}

func (o *Orchestrator) handleTimeout(generation int) {
	if generation != o.generation || o.pending == pendingNone {
		return
	}
	if !o.retried {
		o.retried = true
		o.log.Warn("orchestrator: display confirmation timed out, retrying",
			zap.Int("pending", int(o.pending)))
		o.reissuePending()
		return
	}
	// Second timeout. A wedged hide is treated as hidden so the flow can
	// continue; a wedged show leaves the flow on the current module, which
	// stays command-reachable because the target was installed on entry.
	wedged := o.pending
	o.clearPending()
	o.log.Error("orchestrator: display confirmation timed out twice",
		zap.Int("pending", int(wedged)))
	if wedged == pendingHide {
		o.handleHiddenAfterTimeout()
	}
}

func (o *Orchestrator) handleHiddenAfterTimeout() {
	if o.exiting {
		o.finish()
		return
	}
	next, ok := o.seq.Advance()
	if !ok {
		o.finish()
		return
	}
	o.activateModule(next)
}

// activateModule enters moduleActive(i): the result record is created on
// first activation, the controller is resolved and installed as the single
// command target, and the presentation request is issued.
func (o *Orchestrator) activateModule(id exam.ModuleID) {
	o.session.EnsureResult(id, o.protocol)
	rt := module.NewRuntime(o.session, o.protocol, o.notifyCompletion, o.log)
	ctrl, err := o.registry.Resolve(id, rt)
	if err != nil {
		// A missing controller is a wiring fault; skip the module rather
		// than wedging the session.
		o.log.Error("orchestrator: resolve controller failed",
			zap.String("module", string(id)), zap.Error(err))
		if next, ok := o.seq.Advance(); ok {
			o.activateModule(next)
		} else {
			o.finish()
		}
		return
	}
	o.active = ctrl
	o.phase = PhaseModuleActive
	o.router.SetTarget(ctrl, router.ContextModule)
	o.recorder.Note("module %s active", id)
	o.requestShow(id)
}

func (o *Orchestrator) notifyCompletion(id exam.ModuleID) {
	o.Submit(CompletionEvent{Module: id})
}

// beginExit honors a user-initiated exit from any state. At most one hide
// request is issued for the whole exit: a hide already in flight is reused.
func (o *Orchestrator) beginExit() {
	if o.exiting || o.phase == PhaseFinished {
		return
	}
	o.exiting = true
	o.router.ClearTarget(router.ContextNone)
	o.active = nil
	o.recorder.Note("session exit requested")
	if o.pending == pendingHide {
		return
	}
	if o.pending == pendingShow {
		o.clearPending()
	}
	if o.display.IsShown() {
		o.requestHide()
		return
	}
	o.finish()
}

func (o *Orchestrator) finish() {
	o.clearPending()
	o.phase = PhaseFinished
	o.router.ClearTarget(router.ContextSummary)
	o.active = nil
	if err := o.store.SaveSession(o.session); err != nil {
		o.log.Error("orchestrator: persist session failed", zap.Error(err))
	}
	o.recorder.Note("session %s finished, total score %d (%d/%d modules)",
		o.session.ID, o.session.TotalScore(), o.seq.CompletedCount(), o.seq.Len())
}

func (o *Orchestrator) requestShow(id exam.ModuleID) {
	o.pending = pendingShow
	o.retried = false
	o.armTimer()
	if err := o.display.RequestShow(id); err != nil {
		o.log.Error("orchestrator: show request failed", zap.String("module", string(id)), zap.Error(err))
	}
}

func (o *Orchestrator) requestHide() {
	o.pending = pendingHide
	o.retried = false
	o.armTimer()
	if err := o.display.RequestHide(); err != nil {
		o.log.Error("orchestrator: hide request failed", zap.Error(err))
	}
}

func (o *Orchestrator) reissuePending() {
	o.armTimer()
	switch o.pending {
	case pendingShow:
		if id, ok := o.seq.Current(); ok {
			if err := o.display.RequestShow(id); err != nil {
				o.log.Error("orchestrator: show retry failed", zap.Error(err))
			}
		}
	case pendingHide:
		if err := o.display.RequestHide(); err != nil {
			o.log.Error("orchestrator: hide retry failed", zap.Error(err))
		}
	}
}

func (o *Orchestrator) armTimer() {
	o.generation++
	gen := o.generation
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.confirmTimeout, func() {
		o.Submit(displayTimeoutEvent{generation: gen})
	})
}

func (o *Orchestrator) clearPending() {
	o.pending = pendingNone
	o.retried = false
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *Orchestrator) render() {
	snap := Snapshot{
		Phase:          o.phase,
		SessionID:      o.session.ID,
		ModuleIndex:    o.seq.Index(),
		ModuleCount:    o.seq.Len(),
		CompletedCount: o.seq.CompletedCount(),
		TotalScore:     o.session.TotalScore(),
		HelpVisible:    o.router.HelpVisible(),
		Help:           o.router.AvailableCommands(),
	}
	if id, ok := o.seq.Current(); ok {
		snap.Module = id
		snap.Title = id.Title()
		if res, ok := o.session.Result(id); ok {
			snap.Score = res.Score()
		}
	}
	if o.active != nil {
		snap.Status = o.active.Status()
	}
	o.display.Render(snap)
}
