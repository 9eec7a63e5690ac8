package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/okian/courtside/internal/adapters/csvio"
	"github.com/okian/courtside/internal/adapters/postgres"
	"github.com/okian/courtside/internal/adapters/redisstream"
	app "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/internal/domain/split"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			os.Stderr.WriteString("courtside: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}

// flags override the loaded configuration when set.
type flags struct {
	config   string
	in       string
	out      string
	layout   string
	splitDir string
	workers  int
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("courtside", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &flags{}
	fs.StringVar(&f.config, "config", "", "YAML configuration file (default $COURTSIDE_CONFIG)")
	fs.StringVar(&f.in, "in", "", "input CSV, - for stdin")
	fs.StringVar(&f.out, "out", "", "output CSV, - for stdout")
	fs.StringVar(&f.layout, "layout", "", "input layout: auto, team or game")
	fs.StringVar(&f.splitDir, "split-dir", "", "directory for train/validation/test tables")
	fs.IntVar(&f.workers, "workers", 0, "timeline workers")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *flags) apply(cfg *config.Config) error {
	if f.in != "" {
		cfg.Input.Path = f.in
	}
	if f.out != "" {
		cfg.Output.Path = f.out
	}
	if f.layout != "" {
		cfg.Input.Layout = f.layout
	}
	if f.splitDir != "" {
		cfg.Output.SplitDir = f.splitDir
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, f.config)
	if err != nil {
		return err
	}
	if err := f.apply(cfg); err != nil {
		return err
	}

	if err := logger.InitWith(stderr, cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsTextfile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
				log.Error(ctx, "write metrics textfile", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
			}
		}()
	}

	table, err := csvio.NewReader(csvio.WithLogger(log.Named("csv"))).ReadFile(ctx, cfg.Input.Path, csvio.Layout(cfg.Input.Layout))
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.Input.Path, err)
	}
	log.Info(ctx, "input loaded",
		logger.String("path", cfg.Input.Path),
		logger.String("layout", string(table.Layout)),
		logger.Int("rows", len(table.Rows)),
		logger.Int("stats", len(table.Stats)),
	)

	pipeline := app.New(append(app.FromConfig(cfg), app.WithLogger(log.Named("pipeline")))...)
	res, runErr := pipeline.Run(ctx, table.Rows, table.Stats)

	// The run summary is published whether or not the run succeeded.
	if cfg.Redis.URL != "" {
		if err := publish(ctx, cfg, res.Report); err != nil {
			log.Error(ctx, "publish run summary", logger.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := csvio.WriteFile(cfg.Output.Path, res.Frame, cfg.Output.Lowercase); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output.Path, err)
	}

	if dir := summaryDir(cfg); dir != "" {
		if err := csvio.WriteSeasonSummaryFile(dir, res.Report.Boundary); err != nil {
			return err
		}
	}

	if cfg.Output.SplitDir != "" {
		parts, err := split.Chronological(res.Frame.Records, split.Ratios{
			Train:      cfg.Split.Train,
			Validation: cfg.Split.Validation,
			Test:       cfg.Split.Test,
		})
		if err != nil {
			return err
		}
		if len(parts.Straddles) > 0 {
			log.Warn(ctx, "split boundaries share a date", logger.Int("straddles", len(parts.Straddles)))
		}
		if err := csvio.WriteSplits(cfg.Output.SplitDir, parts, res.Frame.Schema, cfg.Output.Lowercase); err != nil {
			return err
		}
	}

	if cfg.Postgres.DSN != "" {
		if err := store(ctx, cfg, res); err != nil {
			return err
		}
	}
	return nil
}

// summaryDir is the directory that receives season_summary.csv: the split
// directory, else the output file's directory. Stdout output has none.
func summaryDir(cfg *config.Config) string {
	if cfg.Output.SplitDir != "" {
		return cfg.Output.SplitDir
	}
	if cfg.Output.Path == "" || cfg.Output.Path == "-" {
		return ""
	}
	return filepath.Dir(cfg.Output.Path)
}

func store(ctx context.Context, cfg *config.Config, res *app.Result) error {
	sink, err := postgres.Open(ctx, cfg.Postgres.DSN,
		postgres.WithTable(cfg.Postgres.Table),
		postgres.WithLogger(logger.Get().Named("postgres")),
	)
	if err != nil {
		return err
	}
	defer sink.Close() //nolint:errcheck // read-only after commit

	if err := sink.EnsureTable(ctx); err != nil {
		return err
	}
	_, err = sink.Upsert(ctx, res.Report.RunID, res.Frame)
	return err
}

func publish(ctx context.Context, cfg *config.Config, report *app.Report) error {
	pub, err := redisstream.Dial(ctx, cfg.Redis.URL,
		redisstream.WithStream(cfg.Redis.Stream),
		redisstream.WithLogger(logger.Get().Named("redis")),
	)
	if err != nil {
		return err
	}
	defer pub.Close() //nolint:errcheck // nothing buffered

	_, err = pub.Publish(ctx, report.RunID, report)
	return err
}
