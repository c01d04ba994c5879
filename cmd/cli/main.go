package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/cmd/cli/commands"
	"github.com/carebridge/rosterguard/internal/config"
	"github.com/carebridge/rosterguard/pkg/core/templates"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/core/validation/rules"
	"github.com/carebridge/rosterguard/pkg/db"
	"github.com/carebridge/rosterguard/pkg/postgres"
	"github.com/carebridge/rosterguard/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterguard",
		Short: "RosterGuard CLI - Validate support worker rosters",
		Long:  `A CLI tool for validating support worker rosters: rest, hours, staffing ratios, availability, and participant restrictions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "prod", "Environment (test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on the console")

	rootCmd.AddCommand(commands.ValidateWeekCmd(appRef()))
	rootCmd.AddCommand(commands.ValidateShiftsCmd(appRef()))
	rootCmd.AddCommand(commands.CheckAvailabilityCmd(appRef()))
	rootCmd.AddCommand(commands.ExportCalendarCmd(appRef()))
	rootCmd.AddCommand(commands.ListPresetsCmd(appRef()))
	rootCmd.AddCommand(commands.SetPresetCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, allocating it before initApp fills
// it in so command constructors can capture the pointer.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, the store, and the rule engine
func initApp() error {
	var err error
	appRef()
	app.Ctx = context.Background()
	app.Env = env

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Store, err = openStore()
	if err != nil {
		return err
	}

	var tm *templates.Manager
	if path := app.Cfg.Validation.TemplatesFile; path != "" {
		tm, err = templates.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		app.Logger.Debug("Templates loaded", zap.Int("templates", tm.Len()))
	} else {
		tm, err = templates.NewManager(nil)
		if err != nil {
			return fmt.Errorf("failed to build template manager: %w", err)
		}
	}

	registry := rules.DefaultRegistry()
	app.Orchestrator = validation.NewOrchestrator(registry, tm, app.Logger)
	app.Logger.Debug("Rule engine initialized", zap.Int("rules", registry.Len()))

	return nil
}

// openStore connects the configured storage driver.
func openStore() (db.Store, error) {
	switch app.Cfg.Storage.Driver {
	case "postgres":
		app.Logger.Info("Connecting to PostgreSQL")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pg.RunMigrations(app.Ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return pg, nil
	default:
		app.Logger.Info("Opening JSON store", zap.String("dir", app.Cfg.Storage.DataDir))
		store, err := db.NewJSONStore(app.Cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON store: %w", err)
		}
		return store, nil
	}
}
