package app

import (
	"log/slog"

	"github.com/chrisconley/retailrfm/internal/infra"
)

// subscribe wires logging and metrics to run events.
func (a *App) subscribe() {
	a.bus.Subscribe(infra.ExtractLoaded, func(e infra.Event) {
		evt := e.(infra.ExtractLoadedEvent)
		a.metrics.ObserveExtract(evt.Rows)
		a.logger.Info("extract loaded",
			slog.String("run_id", evt.RunID),
			slog.String("source", evt.Source),
			slog.Int("columns", evt.Columns),
			slog.Int("rows", evt.Rows))
	})

	a.bus.Subscribe(infra.StageCompleted, func(e infra.Event) {
		evt := e.(infra.StageCompletedEvent)
		a.metrics.ObserveStage(evt.Entry)
		a.logger.Info("stage completed",
			slog.String("run_id", evt.RunID),
			slog.String("stage", evt.Entry.Stage),
			slog.Int("rows_removed", evt.Entry.RowsRemoved),
			slog.Int("rows_remaining", evt.Entry.RowsAfter),
			slog.String("description", evt.Entry.Reason))
	})

	a.bus.Subscribe(infra.CleaningCompleted, func(e infra.Event) {
		evt := e.(infra.CleaningCompletedEvent)
		a.metrics.ObserveCleaning(evt.Summary)
		a.logger.Info("cleaning completed",
			slog.String("run_id", evt.RunID),
			slog.Int("initial_rows", evt.Summary.InitialRows),
			slog.Int("final_rows", evt.Summary.FinalRows),
			slog.Float64("percent_removed", evt.Summary.PercentRemoved),
			slog.Int("outliers_flagged", evt.Summary.OutliersFlagged),
			slog.Int("returns_marked", evt.Summary.ReturnsMarked))
	})

	a.bus.Subscribe(infra.CustomersSegmented, func(e infra.Event) {
		evt := e.(infra.CustomersSegmentedEvent)
		a.metrics.ObserveSegments(evt.Segments)
		attrs := []any{
			slog.String("run_id", evt.RunID),
			slog.String("median_recency", evt.Thresholds.Recency),
			slog.String("median_frequency", evt.Thresholds.Frequency),
			slog.String("median_monetary", evt.Thresholds.Monetary),
		}
		for _, s := range evt.Segments {
			attrs = append(attrs, slog.Int(s.Segment, s.Customers))
		}
		a.logger.Info("customers segmented", attrs...)
	})

	a.bus.Subscribe(infra.OutputPublished, func(e infra.Event) {
		evt := e.(infra.OutputPublishedEvent)
		a.metrics.ObserveOutput(evt.Bytes)
		a.logger.Debug("output published",
			slog.String("run_id", evt.RunID),
			slog.String("key", evt.Key),
			slog.Int64("bytes", evt.Bytes))
	})

	a.bus.Subscribe(infra.RunFailed, func(e infra.Event) {
		evt := e.(infra.RunFailedEvent)
		a.logger.Error("run failed", slog.String("run_id", evt.RunID), slog.Any("error", evt.Err))
	})
}
