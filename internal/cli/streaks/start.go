package streaks

import (
	"errors"
	"fmt"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/goals"
	"github.com/julianstephens/learnlit/internal/models"
)

type StartCmd struct {
	Subject string `arg:"" help:"What you are learning."`
	Period  string `help:"Goal period: week, month or year." default:"week" short:"p"`
	Yes     bool   `help:"Switch without asking, even when the current goal has progress." short:"y"`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	period, err := models.ParsePeriod(c.Period)
	if err != nil {
		return err
	}

	svc, err := ctx.Goals()
	if err != nil {
		return err
	}

	confirm := func(current *goals.Session) bool {
		if c.Yes {
			return true
		}
		snap := current.Tracker.Snapshot()
		ctx.Printf("%s has progress (%d learned, %d frozen).\n", current.Goal, snap.LearnedCount, snap.FrozenCount)
		ok, err := ctx.Confirm("Switch goals? The new goal starts from zero.")
		return err == nil && ok
	}

	res, err := svc.Start(c.Subject, period, confirm)
	if errors.Is(err, goals.ErrSwitchDeclined) {
		ctx.Println("Keeping the current goal.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start goal: %w", err)
	}

	goal := res.Session.Goal
	switch {
	case res.Reset && !res.Switched && !res.Created:
		ctx.Printf("Starting %s again from zero.\n", goal)
	case res.Created:
		ctx.Printf("✓ Started %s: learn %d days, %d freezes allowed.\n", goal, res.Session.Tracker.Snapshot().Threshold, res.Session.Tracker.Snapshot().FreezeQuota)
	case res.Switched:
		ctx.Printf("✓ Switched to %s.\n", goal)
	default:
		ctx.Printf("%s is already the active goal.\n", goal)
	}
	return nil
}
