package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/cli/backups"
	"github.com/julianstephens/learnlit/internal/cli/settings"
	"github.com/julianstephens/learnlit/internal/cli/streaks"
	"github.com/julianstephens/learnlit/internal/cli/system"
	"github.com/julianstephens/learnlit/internal/config"
	"github.com/julianstephens/learnlit/internal/constants"
	cerrors "github.com/julianstephens/learnlit/internal/errors"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/notifier"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store path or connection string (SQLite file, .json file, postgres://, redis://, :memory:). For PostgreSQL, keep passwords out of this flag; use LEARNLIT_DB_CONNECTION or 'learnlit keyring set' instead." type:"string"`
	Debug    bool   `help:"Log debug output to stderr."`
	Timezone string `help:"Timezone for day boundaries, overriding the stored setting."`

	Init     system.InitCmd       `cmd:"" help:"Initialize learnlit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Start    streaks.StartCmd     `cmd:"" help:"Start or switch to a learning goal."`
	Learned  streaks.LearnedCmd   `cmd:"" help:"Log today as learned."`
	Frozen   streaks.FrozenCmd    `cmd:"" help:"Use a freeze for today."`
	Status   streaks.StatusCmd    `cmd:"" help:"Show the active goal."`
	Reset    streaks.ResetCmd     `cmd:"" help:"Clear the active goal's progress."`
	Goals    streaks.GoalsCmd     `cmd:"" help:"List every goal."`
	Calendar streaks.CalendarCmd  `cmd:"" help:"Show a month of logged days."`
	Log      streaks.LogCmd       `cmd:"" help:"Show the last days as a strip."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

// skipsLoad reports whether command opens the store itself or not at all.
func skipsLoad(command string) bool {
	return command == "init" ||
		command == "doctor" ||
		strings.HasPrefix(command, "keyring")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily learning streaks with a freeze quota"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	target, err := config.Resolve(CLI.Config)
	if err != nil {
		cerrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: target.ConfigDir()}); err != nil {
		cerrors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Resolved store", "kind", target.Kind, "source", target.Source, "target", target.Display())

	store, err := config.Open(target)
	if err != nil {
		cerrors.Fatal(err)
	}
	defer store.Close()

	if !skipsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			cerrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:    store,
		Target:   target,
		Notifier: notifier.New(),
		Timezone: CLI.Timezone,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		cerrors.Fatal(err)
	}
}
