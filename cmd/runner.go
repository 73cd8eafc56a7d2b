package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/stepmuse/internal/repositories"
	"github.com/desertthunder/stepmuse/internal/services"
	"github.com/desertthunder/stepmuse/internal/shared"
	"github.com/desertthunder/stepmuse/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	similarity services.Similarity
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Similarity services.Similarity
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		similarity: opts.Similarity,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		retagCommand, similarCommand, setupCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// similarityFor returns the configured service, rebuilt when the command
// overrides the server address.
func (r *Runner) similarityFor(cmd *cli.Command) services.Similarity {
	if server := cmd.String("server"); server != "" {
		timeout := time.Duration(r.config.Similarity.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return services.NewAudioMuseService(server, &http.Client{Timeout: timeout})
	}
	return r.similarity
}

// openResolveCache opens the resolve cache when a database path is configured.
// Returns a nil cache (not an error) when caching is disabled.
func (r *Runner) openResolveCache() (tasks.ResolveCache, func(), error) {
	path := r.config.Database.Path
	if path == "" {
		r.logger.Debug("resolve cache disabled, no database path configured")
		return nil, func() {}, nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open resolve cache: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate resolve cache: %w", err)
	}

	adapter := repositories.NewResolveCacheAdapter(repositories.NewResolutionRepository(db))
	return adapter, func() { db.Close() }, nil
}

// consumeProgress logs engine progress updates until the channel closes.
func (r *Runner) consumeProgress(prog <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info(update.Message,
				"phase", update.Phase.String(),
				"step", update.Step,
				"total", update.Total,
			)
		}
	}()
	return done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
