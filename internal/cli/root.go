package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/learnlit/internal/backup"
	"github.com/julianstephens/learnlit/internal/clock"
	"github.com/julianstephens/learnlit/internal/config"
	cerrors "github.com/julianstephens/learnlit/internal/errors"
	"github.com/julianstephens/learnlit/internal/goals"
	"github.com/julianstephens/learnlit/internal/logger"
	"github.com/julianstephens/learnlit/internal/notifier"
	"github.com/julianstephens/learnlit/internal/storage"
	"github.com/julianstephens/learnlit/internal/streak"
)

type Context struct {
	Store    storage.Provider
	Target   config.Target
	Clock    clock.Clock
	Notifier notifier.Sender
	// Timezone overrides the stored timezone setting when non-empty.
	Timezone string

	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader

	goals *goals.Service
	in    *bufio.Reader
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stderr() io.Writer {
	if c.ErrOut == nil {
		return os.Stderr
	}
	return c.ErrOut
}

// Confirm asks a yes/no question on In. Anything but y or yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	if c.in == nil {
		in := c.In
		if in == nil {
			in = os.Stdin
		}
		c.in = bufio.NewReader(in)
	}

	c.Printf("%s [y/N]: ", prompt)
	response, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Location is the timezone day boundaries are computed in: the --timezone
// flag, else the stored setting.
func (c *Context) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		settings, err := c.Store.GetSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		tz = settings.Timezone
	}
	return clock.LoadLocation(tz)
}

// Goals returns the goal service, building it on first use. The store must
// be loaded.
func (c *Context) Goals() (*goals.Service, error) {
	if c.goals != nil {
		return c.goals, nil
	}

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	opts := []goals.Option{goals.WithLocation(loc)}
	if c.Clock != nil {
		opts = append(opts, goals.WithClock(c.Clock))
	}
	if c.Notifier != nil {
		opts = append(opts, goals.WithNotifier(c.Notifier))
	}
	c.goals = goals.NewService(c.Store, opts...)
	return c.goals, nil
}

// Session resumes the active goal and tells the user when the streak was
// broken by inactivity.
func (c *Context) Session() (*goals.Session, error) {
	svc, err := c.Goals()
	if err != nil {
		return nil, err
	}
	session, err := svc.Resume()
	if err != nil {
		return nil, err
	}
	if session.StreakBroken {
		c.Printf("⚠️  More than %d hours without a logged day: %s was reset.\n", int(streak.InactivityWindow.Hours()), session.Goal)
	}
	if session.Resumed.PersistErr != nil {
		cerrors.Warn(c.Stderr(), session.Resumed.PersistErr)
	}
	return session, nil
}

// BackupManager returns a manager for file-backed stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if !c.Target.IsFile() {
		return nil, fmt.Errorf("backups are only supported for SQLite and JSON stores (current store: %s)", c.Target.Kind)
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
