package settings

import (
	"fmt"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/clock"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used for day boundaries, or Local."`
	NotificationsEnabled *bool   `help:"Enable or disable completion notifications."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		active := settings.ActiveGoalID
		if active == "" {
			active = "(none)"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.Printf("  Active Goal:           %s\n", active)
		ctx.Printf("  Store:                 %s (%s)\n", ctx.Target.Display(), ctx.Target.Kind)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !clock.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
