package system

import (
	"context"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	svc, err := ctx.Goals()
	if err != nil {
		return err
	}
	return tui.Run(context.Background(), svc)
}
