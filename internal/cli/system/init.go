package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/learnlit/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete an existing file store before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized learnlit storage at: %s\n", ctx.Target.Display())
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if !ctx.Target.IsFile() {
		ctx.Printf("--force only applies to file stores; %s left as is.\n", ctx.Target.Kind)
		return nil
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing store: %w", err)
	}

	// close first so the file is not held open while it is removed
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing store: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing store: %w", err)
	}
	ctx.Printf("Deleted existing store at: %s\n", dbPath)
	return nil
}
