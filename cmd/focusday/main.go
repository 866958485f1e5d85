package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/cli/backups"
	"github.com/julianstephens/focusday/internal/cli/habits"
	"github.com/julianstephens/focusday/internal/cli/quotes"
	"github.com/julianstephens/focusday/internal/cli/system"
	"github.com/julianstephens/focusday/internal/cli/tasks"
	"github.com/julianstephens/focusday/internal/cli/timer"
	"github.com/julianstephens/focusday/internal/config"
	"github.com/julianstephens/focusday/internal/constants"
	apperrors "github.com/julianstephens/focusday/internal/errors"
	"github.com/julianstephens/focusday/internal/keyring"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/storage"
	"github.com/julianstephens/focusday/internal/storage/memory"
	"github.com/julianstephens/focusday/internal/storage/postgres"
	"github.com/julianstephens/focusday/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	DB      string `name:"db" help:"SQLite database path or PostgreSQL connection string, overriding the config. PostgreSQL credentials must NOT be embedded; use the keyring, ${env_var} or .pgpass."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize focusday storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Timer   timer.TimerCmd    `cmd:"" default:"1" help:"Pomodoro timer."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits and habit tracking."`
	Task    tasks.TaskCmd     `cmd:"" help:"Manage todo tasks."`
	Quotes  quotes.QuotesCmd  `cmd:"" help:"Manage motivational quote reminders."`
	Backup  backups.BackupCmd `cmd:"" help:"Manage database backups."`
	Cfg     system.ConfigCmd  `cmd:"" name:"config" help:"Show configuration and manage credentials."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a test notification."`
}

// applyDBFlag lets --db pick the driver from the value's shape.
func applyDBFlag(cfg *config.Config, db string) {
	switch {
	case db == "":
	case db == constants.DriverMemory:
		cfg.Storage.Driver = constants.DriverMemory
	case strings.HasPrefix(db, "postgres://") || strings.HasPrefix(db, "postgresql://") || strings.Contains(db, "host="):
		cfg.Storage.Driver = constants.DriverPostgres
		cfg.Storage.DSN = db
	default:
		cfg.Storage.Driver = constants.DriverSQLite
		cfg.Storage.Path = db
	}
}

func openStore(cfg config.Config) (storage.Provider, error) {
	switch cfg.Storage.Driver {
	case constants.DriverMemory:
		return memory.NewStore(), nil
	case constants.DriverPostgres:
		dsn := cfg.Storage.DSN
		if dsn == "" {
			resolved, source, err := keyring.Resolve()
			if err != nil {
				if errors.Is(err, keyring.ErrNotFound) {
					return nil, fmt.Errorf("no PostgreSQL connection configured: set storage.dsn, %s, or run '%s config connection --set'", constants.DBConnectionEnvVar, constants.AppName)
				}
				return nil, err
			}
			logger.Debug("Using PostgreSQL connection string", "source", source)
			dsn = resolved
		} else if _, err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed in the config or on the command line; use '%s config connection --set', %s, or .pgpass", constants.AppName, constants.DBConnectionEnvVar)
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	default:
		path, err := config.ExpandPath(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit streaks, pomodoro timer and todo list"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"env_var":     constants.DBConnectionEnvVar,
		},
	)

	configPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(configPath)}); err != nil {
		apperrors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		apperrors.Fatal(err)
	}
	applyDBFlag(&cfg, CLI.DB)

	store, err := openStore(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx, err := cli.NewContext(store, cfg, configPath, nil)
	if err != nil {
		apperrors.Fatal(err)
	}

	// init creates the storage itself
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
