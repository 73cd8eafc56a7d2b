package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/stepmuse/internal/formatter"
	"github.com/desertthunder/stepmuse/internal/shared"
	"github.com/desertthunder/stepmuse/internal/tasks"
	"github.com/desertthunder/stepmuse/internal/ui"
	"github.com/urfave/cli/v3"
)

// SimilarExport runs the batch similarity export: one report row per
// suggestion, grouped by source track in master-list order.
func (r *Runner) SimilarExport(ctx context.Context, cmd *cli.Command) error {
	input := cmd.String("input")
	output := cmd.String("output")

	logger := shared.WithLogger(r.logger, "command", "similar export")

	records, err := formatter.ReadMasterCSV(input)
	if err != nil {
		return fmt.Errorf("failed to read master list: %w", err)
	}
	logger.Info("loaded master list", "path", input, "tracks", len(records))

	cache, closeCache, err := r.openResolveCache()
	if err != nil {
		return err
	}
	defer closeCache()

	opts := tasks.ExportOpts{
		Count:      r.config.Export.Count,
		NumWorkers: r.config.Export.NumWorkers,
		RateLimit:  r.config.Export.RateLimit,
	}
	if n := cmd.Int("count"); n > 0 {
		opts.Count = n
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.NumWorkers = w
	}

	prog := make(chan tasks.ProgressUpdate, 64)
	done := r.consumeProgress(prog)

	engine := tasks.NewExportEngine(r.similarityFor(cmd), cache)
	result, err := engine.Export(ctx, prog, records, opts)
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := formatter.WriteSuggestionsCSV(result.Rows, output); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return r.writePlain("%s", ui.ExportSummary(result, output))
}

// SimilarTrack queries suggestions for a single track and prints them.
func (r *Runner) SimilarTrack(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	if title == "" {
		return fmt.Errorf("%w: --title", shared.ErrMissingArgument)
	}
	artist := cmd.String("artist")
	count := cmd.Int("count")
	if count <= 0 {
		count = r.config.Export.Count
	}

	srv := r.similarityFor(cmd)
	if err := srv.Ping(ctx); err != nil {
		return fmt.Errorf("similarity service unreachable: %w", err)
	}

	track, err := srv.Resolve(ctx, title, artist)
	if err != nil {
		return fmt.Errorf("failed to resolve track: %w", err)
	}

	neighbors, err := srv.SimilarTracks(ctx, track.ItemID, count)
	if err != nil {
		return fmt.Errorf("failed to fetch similar tracks: %w", err)
	}

	distant, err := srv.MostDistant(ctx, track.ItemID)
	if err != nil {
		return fmt.Errorf("failed to fetch most distant track: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"track":        track,
			"similar":      neighbors,
			"most_distant": distant,
		}, true)
	}

	r.writePlainln("%s", ui.Title(fmt.Sprintf("%s - %s (%s)", track.Title, track.Artist, track.ItemID)))
	for i, neighbor := range neighbors {
		r.writePlain("%2d. %s - %s (%.4f)\n", i+1, neighbor.Track.Title, neighbor.Track.Artist, neighbor.Distance)
	}
	r.writePlainln("%s", ui.Warn(fmt.Sprintf("Most distant: %s - %s (%.4f)",
		distant.Track.Title, distant.Track.Artist, distant.Distance)))

	return nil
}

// similarCommand queries the similarity service
func similarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "similar",
		Usage: "Query an AudioMuse-AI instance for similar tracks",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export suggestions for every track in a master CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Master CSV (id,path,title,artist,album)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Report CSV path",
						Value:   "similar_tracks.csv",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Similar tracks per song",
					},
					&cli.StringFlag{
						Name:  "server",
						Usage: "AudioMuse-AI address (host:port), overrides config",
					},
				},
				Action: r.SimilarExport,
			},
			{
				Name:  "track",
				Usage: "Show suggestions for a single track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Track artist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the raw response as JSON",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Similar tracks to show",
					},
					&cli.StringFlag{
						Name:  "server",
						Usage: "AudioMuse-AI address (host:port), overrides config",
					},
				},
				Action: r.SimilarTrack,
			},
		},
	}
}
