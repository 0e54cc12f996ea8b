package streaks

import (
	"errors"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/constants"
	"github.com/julianstephens/learnlit/internal/goals"
)

type GoalsCmd struct{}

func (c *GoalsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Goals()
	if err != nil {
		return err
	}
	session, err := ctx.Session()
	if err != nil && !errors.Is(err, goals.ErrNoActiveGoal) {
		return err
	}
	summaries, err := svc.List(session)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		ctx.Println("No goals yet. Start one with 'learnlit start <subject>'.")
		return nil
	}

	for _, s := range summaries {
		marker := " "
		if s.Active {
			marker = "*"
		}
		ctx.Printf("%s %-30s %-6s %3d/%-3d  freezes %d/%d  since %s\n",
			marker,
			s.Goal.Subject,
			s.Goal.Period,
			s.State.LearnedCount, s.State.Threshold,
			s.State.FrozenCount, s.State.FreezeQuota,
			s.Goal.CreatedAt.In(svc.Location()).Format(constants.DateFormat),
		)
	}
	return nil
}
