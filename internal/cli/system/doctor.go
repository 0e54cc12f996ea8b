package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/learnlit/internal/backup"
	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/streak"
	"github.com/julianstephens/learnlit/internal/validation"
)

// processesFunc is swapped in tests.
var processesFunc = ps.Processes

type DoctorCmd struct{}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
	checkSkipped
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, status checkStatus, err error) {
		switch status {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		case checkSkipped:
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", name, err)
		}
	}
	result := func(name string, err error, failStatus checkStatus) {
		if err != nil {
			report(name, failStatus, err)
		} else {
			report(name, checkOK, nil)
		}
	}

	reachErr := checkStoreReachable(ctx)
	result("Store reachable", reachErr, checkFail)
	reachable := reachErr == nil
	unreachable := errors.New("store not reachable")

	if m, ok := ctx.Store.(migrator); !ok {
		report("Schema version", checkSkipped, fmt.Errorf("%s store has no schema", ctx.Target.Kind))
	} else if !reachable {
		report("Schema version", checkSkipped, unreachable)
	} else {
		result("Schema version", checkSchemaVersion(m), checkFail)
	}

	if reachable {
		result("Goal integrity", checkGoalIntegrity(ctx), checkFail)
		result("Orphaned data", checkOrphans(ctx), checkWarn)
	} else {
		report("Goal integrity", checkSkipped, unreachable)
		report("Orphaned data", checkSkipped, unreachable)
	}

	if ctx.Target.IsFile() {
		result("Backups present", checkBackupsPresent(ctx), checkWarn)
	} else {
		report("Backups present", checkSkipped, fmt.Errorf("%s store is not backed up by learnlit", ctx.Target.Kind))
	}

	if reachable {
		result("Timezone", checkTimezone(ctx), checkFail)
	} else {
		report("Timezone", checkSkipped, unreachable)
	}

	result("Clock", checkClock(ctx), checkFail)
	result("Single instance", checkSingleInstance(), checkWarn)

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(m migrator) error {
	status, err := m.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	if status.Pending() > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'learnlit migrate')", status.Current, status.Latest)
	}
	return nil
}

func checkGoalIntegrity(ctx *cli.Context) error {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}
	loc, err := ctx.Location()
	if err != nil {
		loc = time.Local
	}

	v := validation.New(now(ctx), loc)
	result := v.ValidateGoals(goals, storage.NewValues(ctx.Store))
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

// checkOrphans looks for learn-* entries left behind by goals that are no
// longer registered.
func checkOrphans(ctx *cli.Context) error {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}
	keys, err := ctx.Store.Keys(streak.KeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to scan stored keys: %w", err)
	}
	result := validation.FindOrphans(goals, keys)
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.Latest(); err != nil {
		if errors.Is(err, backup.ErrNoBackups) {
			return fmt.Errorf("no backups found - consider creating one with 'learnlit backup create'")
		}
		return fmt.Errorf("failed to list backups: %w", err)
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !clock.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("stored timezone %q is not a valid IANA zone", settings.Timezone)
	}
	if ctx.Timezone != "" && !clock.ValidateTimezone(ctx.Timezone) {
		return fmt.Errorf("--timezone %q is not a valid IANA zone", ctx.Timezone)
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	t := now(ctx)()
	if t.Year() < 2020 || t.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", t.Format(time.RFC3339))
	}
	return nil
}

// checkSingleInstance warns when another learnlit process could be writing
// to the same store.
func checkSingleInstance() error {
	procs, err := processesFunc()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	var others []string
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		exe := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if exe == constants.AppName {
			others = append(others, fmt.Sprint(p.Pid()))
		}
	}
	if len(others) > 0 {
		return fmt.Errorf("other learnlit processes are running (pid %s); concurrent edits may be lost", strings.Join(others, ", "))
	}
	return nil
}

func now(ctx *cli.Context) func() time.Time {
	if ctx.Clock != nil {
		return ctx.Clock.Now
	}
	return time.Now
}
