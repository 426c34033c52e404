// Package main implements the rfm batch binary: one run cleans a retail
// extract, segments its customers and writes the reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisconley/retailrfm/internal/app"
	"github.com/chrisconley/retailrfm/internal/config"
	"github.com/chrisconley/retailrfm/internal/logging"
)

// flags are command-line overrides applied on top of the loaded config.
type flags struct {
	configPath  string
	input       string
	sheet       string
	outputDir   string
	format      string
	compress    bool
	workers     int
	keepReturns bool
	topN        int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rfm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	f := flags{}
	flag.StringVar(&f.configPath, "config", "", "Path to a YAML config file (default $RFM_CONFIG_FILE)")
	flag.StringVar(&f.input, "in", "", "Extract to read (.csv, .csv.sz or .xlsx)")
	flag.StringVar(&f.sheet, "sheet", "", "Worksheet to read from an .xlsx extract")
	flag.StringVar(&f.outputDir, "out", "", "Directory run outputs are written under")
	flag.StringVar(&f.format, "format", "", "Output format: csv or xlsx")
	flag.BoolVar(&f.compress, "compress", false, "Snappy-compress CSV outputs")
	flag.IntVar(&f.workers, "workers", 0, "Aggregation workers")
	flag.BoolVar(&f.keepReturns, "keep-returns", false, "Write the returns table")
	flag.IntVar(&f.topN, "top", 0, "Rows in each top-N table")
	flag.Parse()

	if f.configPath == "" {
		f.configPath = os.Getenv(config.EnvPrefix + "_CONFIG_FILE")
	}

	cfg, err := config.Load(f.configPath, f.apply)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := a.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("reports written",
		slog.String("run_id", result.RunID),
		slog.Int("customers", len(result.RFM.Records)),
		slog.Int("files", len(result.Files)))
	return nil
}

// apply copies the flags the user set onto cfg.
func (f flags) apply(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "in":
			cfg.Input.Path = f.input
		case "sheet":
			cfg.Input.Sheet = f.sheet
		case "out":
			cfg.Output.Dir = f.outputDir
		case "format":
			cfg.Output.Format = f.format
		case "compress":
			cfg.Output.Compress = f.compress
		case "workers":
			cfg.Pipeline.Workers = f.workers
		case "keep-returns":
			cfg.Pipeline.KeepReturns = f.keepReturns
		case "top":
			cfg.Pipeline.TopN = f.topN
		}
	})
}
