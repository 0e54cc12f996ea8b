package streaks

import (
	"fmt"
	"time"

	"github.com/julianstephens/learnlit/internal/calendar"
	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/constants"
)

type CalendarCmd struct {
	Month string `help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	svc, err := ctx.Goals()
	if err != nil {
		return err
	}

	today := svc.Today()
	year, month := today.Year(), today.Month()
	if c.Month != "" {
		t, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
		year, month = t.Year(), t.Month()
	}

	ctx.Println(session.Goal)
	ctx.Println()
	ctx.Println(calendar.Month(year, month, session.Tracker.Snapshot().Logs, today, calendar.DefaultStyles()))
	ctx.Println()
	ctx.Println(calendar.Legend())
	return nil
}

type LogCmd struct {
	Days int `help:"Number of days to show." default:"14"`
}

func (c *LogCmd) Validate() error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("--days must be between 1 and 366")
	}
	return nil
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	svc, err := ctx.Goals()
	if err != nil {
		return err
	}

	ctx.Printf("%s, last %d days:\n\n", session.Goal, c.Days)
	ctx.Println(calendar.History(session.Tracker.Snapshot().Logs, svc.Today(), c.Days))
	ctx.Println()
	ctx.Println(calendar.Legend())
	return nil
}
