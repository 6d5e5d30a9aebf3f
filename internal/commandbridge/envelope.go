// Package commandbridge receives out-of-band commands from the external
// voice-recognition process over a loopback HTTP listener and feeds them into
// the session event loop. Delivery is best-effort and at-most-once per
// utterance: duplicate envelopes are absorbed by utterance ID, and envelopes
// that resolve to no known command are dropped with a 2xx response so the
// voice client never retries them.
package commandbridge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldside/sideline/internal/command"
)

const (
	// ProtocolVersion identifies the bridge contract exposed via /health.
	ProtocolVersion = "1.0.0"
	// EnvelopeSchemaVersion is the currently supported inbound version.
	EnvelopeSchemaVersion = 1
)

// Envelope is a single recognized utterance posted by the voice client.
// Either Action names a symbolic command directly, or Heard carries the raw
// phrase for server-side keyword matching.
type Envelope struct {
	Version     int       `json:"version"`
	UtteranceID string    `json:"utterance_id"`
	Heard       string    `json:"heard,omitempty"`
	Action      string    `json:"action,omitempty"`
	Arg         string    `json:"arg,omitempty"`
	ClientTime  time.Time `json:"client_time"`
	ServerTime  time.Time `json:"server_time"`
}

// Normalize applies defaults and canonical formatting before validation.
func (e *Envelope) Normalize() {
	if e == nil {
		return
	}
	if e.Version == 0 {
		e.Version = EnvelopeSchemaVersion
	}
	e.UtteranceID = strings.TrimSpace(e.UtteranceID)
	e.Heard = strings.TrimSpace(e.Heard)
	e.Action = strings.ToLower(strings.TrimSpace(e.Action))
	e.Arg = strings.TrimSpace(e.Arg)
}

// Validate enforces baseline schema requirements.
func (e Envelope) Validate() error {
	if e.Version != EnvelopeSchemaVersion {
		return fmt.Errorf("version %d not supported", e.Version)
	}
	if e.UtteranceID == "" {
		return errors.New("utterance_id is required")
	}
	if e.Heard == "" && e.Action == "" {
		return errors.New("heard or action is required")
	}
	return nil
}

// Command resolves the envelope into a routed command. ok is false when the
// utterance maps to nothing in the closed action set.
func (e Envelope) Command() (command.Command, bool) {
	if e.Action != "" {
		action := command.Action(e.Action)
		if !action.Known() {
			return command.Command{}, false
		}
		return command.Command{Action: action, Arg: e.Arg}, true
	}
	return command.ParseUtterance(e.Heard)
}

// StampServerTime overwrites ServerTime with the supplied clock reading (UTC).
func (e *Envelope) StampServerTime(now time.Time) {
	if e == nil {
		return
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	e.ServerTime = now.UTC()
}

// CommandSink consumes resolved commands.
type CommandSink interface {
	HandleCommand(cmd command.Command)
}

// CommandSinkFunc adapts a function into a CommandSink.
type CommandSinkFunc func(command.Command)

// HandleCommand executes f(cmd).
func (f CommandSinkFunc) HandleCommand(cmd command.Command) {
	if f != nil {
		f(cmd)
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	SinkReady     bool   `json:"sink_ready"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type commandResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}
