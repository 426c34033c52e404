// Package app runs one end-to-end analytics job: read the extract, clean it,
// segment customers, summarize, write the outputs and publish them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/chrisconley/retailrfm/internal"
	"github.com/chrisconley/retailrfm/internal/config"
	"github.com/chrisconley/retailrfm/internal/infra"
	"github.com/chrisconley/retailrfm/internal/logging"
	"github.com/chrisconley/retailrfm/internal/metrics"
	"github.com/chrisconley/retailrfm/internal/storage"
	"github.com/chrisconley/retailrfm/internal/tabular"
	specs "github.com/chrisconley/retailrfm/specs"
)

// App owns the collaborators of a run.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	bus      *infra.Bus
	metrics  *metrics.Collector
	storage  storage.ObjectStorage
	newRunID func() string
}

// Option customizes an App.
type Option func(*App)

// WithStorage replaces the storage built from configuration.
func WithStorage(store storage.ObjectStorage) Option {
	return func(a *App) { a.storage = store }
}

// WithRunID fixes how run IDs are generated.
func WithRunID(newRunID func() string) Option {
	return func(a *App) { a.newRunID = newRunID }
}

// New creates an App from cfg. Storage is built from cfg.Storage unless an
// option supplies one.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		bus:      infra.NewBus(),
		metrics:  metrics.NewCollector(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.storage == nil {
		store, err := newStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		a.storage = store
	}

	a.subscribe()
	return a, nil
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	switch cfg.Backend {
	case "local":
		return storage.NewLocalStorage(cfg.Path)
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Bucket, storage.S3Config{
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.ForcePathStyle,
		})
	default:
		return nil, nil
	}
}

// Bus exposes run events to additional subscribers.
func (a *App) Bus() *infra.Bus {
	return a.bus
}

// RunResult is what one run produced.
type RunResult struct {
	RunID     string
	Clean     specs.CleanResultSpec
	RFM       specs.RFMResultSpec
	Summary   specs.SummarySpec
	Files     []string
	Published []string
}

// Run executes one job. A schema error aborts before any output is written.
func (a *App) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	runID := a.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	a.logger.InfoContext(ctx, "run started", slog.String("input", a.cfg.Input.Path))

	result, err := a.run(ctx, runID)
	a.metrics.ObserveRun(time.Since(start), err)
	if err != nil {
		a.bus.Publish(infra.RunFailedEvent{RunID: runID, Err: err})
	}

	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			a.logger.WarnContext(ctx, "failed to write metrics textfile", slog.String("path", path), slog.Any("error", werr))
		}
	}

	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "run completed",
		slog.Int("files", len(result.Files)),
		slog.Int("published", len(result.Published)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (a *App) run(ctx context.Context, runID string) (*RunResult, error) {
	extract, err := tabular.ReadExtractFile(a.cfg.Input.Path, a.cfg.Input.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read extract: %w", err)
	}
	a.bus.Publish(infra.ExtractLoadedEvent{
		RunID:   runID,
		Source:  a.cfg.Input.Path,
		Columns: len(extract.Columns),
		Rows:    len(extract.Rows),
	})

	cleaned, err := internal.Clean(extract, specs.CleanOptionsSpec{KeepReturns: a.cfg.Pipeline.KeepReturns})
	if err != nil {
		return nil, fmt.Errorf("failed to clean extract: %w", err)
	}
	for _, entry := range cleaned.Audit {
		a.bus.Publish(infra.StageCompletedEvent{RunID: runID, Entry: entry})
	}
	a.bus.Publish(infra.CleaningCompletedEvent{RunID: runID, Summary: cleaned.Summary})

	records, err := internal.NewCleanRecordsFromSpecs(cleaned.Records)
	if err != nil {
		return nil, err
	}

	customers, err := internal.AggregateCustomersParallel(ctx, records, a.cfg.Pipeline.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customers: %w", err)
	}
	customerSpecs := make([]specs.CustomerAggregateSpec, len(customers))
	for i, c := range customers {
		customerSpecs[i] = c.ToSpec()
	}

	rfm, err := internal.Segment(customerSpecs)
	if err != nil {
		return nil, fmt.Errorf("failed to segment customers: %w", err)
	}
	a.bus.Publish(infra.CustomersSegmentedEvent{RunID: runID, Thresholds: rfm.Thresholds, Segments: rfm.Segments})

	summary, err := internal.Summarize(cleaned.Records, rfm)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}

	groupTables, err := a.groupTables(ctx, records)
	if err != nil {
		return nil, err
	}

	tables := []tabular.Table{
		tabular.CleanedTable(cleaned.Records),
		tabular.AuditTable(cleaned.Audit),
		tabular.RFMTable(rfm.Records),
		tabular.SegmentsTable(rfm.Segments),
		tabular.SummaryTable(summary),
	}
	tables = append(tables, groupTables...)
	if cleaned.Returns != nil {
		tables = append(tables, tabular.ReturnsTable(cleaned.Returns))
	}

	dir := filepath.Join(a.cfg.Output.Dir, runID)
	files, err := tabular.WriteFiles(dir, a.cfg.Output.Format, a.cfg.Output.Compress, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to write outputs: %w", err)
	}

	published, err := a.publish(ctx, runID, files)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:     runID,
		Clean:     cleaned,
		RFM:       rfm,
		Summary:   summary,
		Files:     files,
		Published: published,
	}, nil
}

// rankedDimensions lists the group tables of a run. Ranked tables are cut to
// the top N by revenue; the others keep first-occurrence order.
var rankedDimensions = []struct {
	table     string
	dimension string
	ranked    bool
}{
	{"top_products", specs.DimensionDescription, true},
	{"top_countries", specs.DimensionCountry, true},
	{"top_categories", specs.DimensionCategory, true},
	{"monthly_revenue", specs.DimensionYearMonth, false},
	{"weekday_revenue", specs.DimensionDayOfWeek, false},
}

func (a *App) groupTables(ctx context.Context, records []internal.CleanRecord) ([]tabular.Table, error) {
	tables := make([]tabular.Table, 0, len(rankedDimensions))
	for _, rd := range rankedDimensions {
		dim, err := internal.NewDimension(rd.dimension)
		if err != nil {
			return nil, err
		}
		groups, err := internal.GroupByParallel(ctx, records, dim, a.cfg.Pipeline.Workers)
		if err != nil {
			return nil, fmt.Errorf("failed to group by %s: %w", rd.dimension, err)
		}
		if rd.ranked {
			groups = internal.TopN(groups, internal.RankByRevenue, a.cfg.Pipeline.TopN)
		}
		groupSpecs := make([]specs.GroupAggregateSpec, len(groups))
		for i, g := range groups {
			groupSpecs[i] = g.ToSpec()
		}
		tables = append(tables, tabular.GroupsTable(rd.table, groupSpecs))
	}
	return tables, nil
}

// publish uploads files under <prefix>/<runID>/ and returns the keys stored
// there. A run ID that already has any published object is refused before
// anything is uploaded. Without storage it is a no-op.
func (a *App) publish(ctx context.Context, runID string, files []string) ([]string, error) {
	if a.storage == nil {
		return nil, nil
	}

	keys := make([]string, len(files))
	for i, file := range files {
		keys[i] = storage.RunKey(a.cfg.Storage.Prefix, runID, filepath.Base(file))
		exists, err := a.storage.Exists(ctx, keys[i])
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", keys[i], err)
		}
		if exists {
			return nil, fmt.Errorf("refusing to publish run %s: %w: %s", runID, storage.ErrObjectExists, keys[i])
		}
	}

	for i, file := range files {
		if err := a.storage.Upload(ctx, file, keys[i]); err != nil {
			return nil, fmt.Errorf("failed to publish %s: %w", keys[i], err)
		}
		var size int64
		if info, err := os.Stat(file); err == nil {
			size = info.Size()
		}
		a.bus.Publish(infra.OutputPublishedEvent{RunID: runID, Key: keys[i], Bytes: size})
	}

	published, err := a.storage.ListObjects(ctx, storage.RunPrefix(a.cfg.Storage.Prefix, runID))
	if err != nil {
		return nil, fmt.Errorf("failed to list published run %s: %w", runID, err)
	}
	return published, nil
}
