package streaks

import (
	"github.com/julianstephens/learnlit/internal/calendar"
	"github.com/julianstephens/learnlit/internal/cli"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	svc, err := ctx.Goals()
	if err != nil {
		return err
	}

	snap := session.Tracker.Snapshot()
	ctx.Println(cli.FormatStatus(session.Goal, snap, svc.Location()))
	ctx.Println()
	ctx.Println(calendar.Week(svc.Today(), snap.Logs, calendar.DefaultStyles()))
	return nil
}

type ResetCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	if !c.Yes && session.Tracker.Snapshot().HasProgress() {
		ok, err := ctx.Confirm("Reset " + session.Goal.String() + "? All progress will be lost.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	out := session.Tracker.Reset()
	ctx.Println(cli.FormatOutcome(out))
	return out.PersistErr
}
