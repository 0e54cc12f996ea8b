package streaks

import (
	"github.com/julianstephens/learnlit/internal/cli"
	cerrors "github.com/julianstephens/learnlit/internal/errors"
	"github.com/julianstephens/learnlit/internal/streak"
)

type LearnedCmd struct{}

func (c *LearnedCmd) Run(ctx *cli.Context) error {
	return logDay(ctx, func(t *streak.Tracker) streak.Outcome { return t.LogLearned() })
}

type FrozenCmd struct{}

func (c *FrozenCmd) Run(ctx *cli.Context) error {
	return logDay(ctx, func(t *streak.Tracker) streak.Outcome { return t.LogFrozen() })
}

func logDay(ctx *cli.Context, op func(*streak.Tracker) streak.Outcome) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	out := op(session.Tracker)
	ctx.Println(cli.FormatOutcome(out))
	if out.PersistErr != nil {
		cerrors.Warn(ctx.Stderr(), out.PersistErr)
	}

	svc, err := ctx.Goals()
	if err != nil {
		return err
	}
	if err := svc.Celebrate(session.Goal, out); err != nil {
		cerrors.Warn(ctx.Stderr(), err)
	}
	return nil
}
