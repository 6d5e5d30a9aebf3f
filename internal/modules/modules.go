package modules

import (
	"github.com/fieldside/sideline/internal/module"
	"github.com/fieldside/sideline/internal/modules/balance"
	"github.com/fieldside/sideline/internal/modules/concentration"
	"github.com/fieldside/sideline/internal/modules/delayedrecall"
	"github.com/fieldside/sideline/internal/modules/memory"
	"github.com/fieldside/sideline/internal/modules/neuro"
	"github.com/fieldside/sideline/internal/modules/orientation"
	"github.com/fieldside/sideline/internal/modules/symptom"
)

// RegisterBuiltins installs every built-in controller factory into the
// provided registry.
func RegisterBuiltins(reg *module.Registry) {
	if reg == nil {
		return
	}
	symptom.Register(reg)
	orientation.Register(reg)
	concentration.Register(reg)
	memory.Register(reg)
	delayedrecall.Register(reg)
	balance.Register(reg)
	neuro.Register(reg)
}
