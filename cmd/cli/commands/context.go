package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/internal/config"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	Store        db.Store
	Orchestrator *validation.Orchestrator
	Logger       *zap.Logger
	Ctx          context.Context
	Env          string
}

// Selection builds the configuration selection for a command invocation.
// An explicit --preset flag wins over the config file; an empty result means
// the persisted selection should be used.
func (a *AppContext) Selection(presetFlag string) validation.ConfigSelection {
	sel := validation.ConfigSelection{
		Preset: validation.Preset(a.Cfg.Validation.Preset),
		Custom: a.Cfg.Validation.Custom,
	}
	if presetFlag != "" {
		sel.Preset = validation.Preset(presetFlag)
	}
	return sel
}
