package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/stepmuse/internal/shared"
	"github.com/desertthunder/stepmuse/internal/tasks"
	"github.com/desertthunder/stepmuse/internal/ui"
	"github.com/urfave/cli/v3"
)

// Retag walks a songs tree and rewrites audio tags from the chart metadata.
func (r *Runner) Retag(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Args().First()
	if root == "" {
		return fmt.Errorf("%w: path to the songs directory", shared.ErrMissingArgument)
	}

	logger := shared.WithLogger(r.logger, "command", "retag")
	logger.Info("retagging library", "root", root)

	prog := make(chan tasks.ProgressUpdate, 64)
	done := r.consumeProgress(prog)

	engine := tasks.NewRetagEngine(nil)
	result, err := engine.Retag(ctx, prog, root)
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("retag failed: %w", err)
	}

	return r.writePlain("%s", ui.RetagSummary(result))
}

// retagCommand writes chart titles, artists and pack names into audio tags
func retagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "retag",
		Usage:     "Write simfile metadata into the sibling audio files' tags",
		ArgsUsage: "<songs directory>",
		Action:    r.Retag,
	}
}
