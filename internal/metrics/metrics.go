// Package metrics records run statistics in a private Prometheus registry
// and writes them as a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	specs "github.com/chrisconley/retailrfm/specs"
)

const namespace = "retailrfm"

// Collector holds the metrics of one run.
type Collector struct {
	registry *prometheus.Registry

	stageRowsRemoved   *prometheus.GaugeVec
	stageRowsRemaining *prometheus.GaugeVec
	rows               *prometheus.GaugeVec
	segmentCustomers   *prometheus.GaugeVec
	outputsPublished   prometheus.Counter
	outputBytes        prometheus.Counter
	runDuration        prometheus.Gauge
	runSuccess         prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stageRowsRemoved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_removed",
			Help:      "Rows removed by each cleaning stage.",
		}, []string{"stage"}),
		stageRowsRemaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_remaining",
			Help:      "Rows left after each cleaning stage.",
		}, []string{"stage"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows",
			Help:      "Row counts of the run by kind.",
		}, []string{"kind"}),
		segmentCustomers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_customers",
			Help:      "Customers per value segment.",
		}, []string{"segment"}),
		outputsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outputs_published_total",
			Help:      "Output files published to storage.",
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_total",
			Help:      "Bytes of output files written.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the run.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 when the run completed, 0 when it failed.",
		}),
	}

	c.registry.MustRegister(
		c.stageRowsRemoved,
		c.stageRowsRemaining,
		c.rows,
		c.segmentCustomers,
		c.outputsPublished,
		c.outputBytes,
		c.runDuration,
		c.runSuccess,
	)
	return c
}

func (c *Collector) ObserveStage(entry specs.AuditEntrySpec) {
	c.stageRowsRemoved.WithLabelValues(entry.Stage).Set(float64(entry.RowsRemoved))
	c.stageRowsRemaining.WithLabelValues(entry.Stage).Set(float64(entry.RowsAfter))
}

// ObserveExtract records the row count of the extract as read, before any
// stage runs.
func (c *Collector) ObserveExtract(rows int) {
	c.rows.WithLabelValues("extract").Set(float64(rows))
}

func (c *Collector) ObserveCleaning(summary specs.ValidationSummarySpec) {
	c.rows.WithLabelValues("initial").Set(float64(summary.InitialRows))
	c.rows.WithLabelValues("final").Set(float64(summary.FinalRows))
	c.rows.WithLabelValues("outliers").Set(float64(summary.OutliersFlagged))
	c.rows.WithLabelValues("returns").Set(float64(summary.ReturnsMarked))
}

func (c *Collector) ObserveSegments(segments []specs.SegmentSummarySpec) {
	for _, s := range segments {
		c.segmentCustomers.WithLabelValues(s.Segment).Set(float64(s.Customers))
	}
}

func (c *Collector) ObserveOutput(bytes int64) {
	c.outputsPublished.Inc()
	c.outputBytes.Add(float64(bytes))
}

func (c *Collector) ObserveRun(duration time.Duration, err error) {
	c.runDuration.Set(duration.Seconds())
	if err != nil {
		c.runSuccess.Set(0)
		return
	}
	c.runSuccess.Set(1)
}

// WriteTextfile atomically writes every metric to path in the text
// exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Gatherer exposes the registry, for callers that serve or inspect it.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}
