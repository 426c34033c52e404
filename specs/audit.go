package specs

// Stage names, in the fixed order the cleaning pipeline executes them.
const (
	StageIdentity   = "identity_filter"
	StageDuplicates = "duplicate_filter"
	StageValidity   = "validity_filter"
	StageOutliers   = "outlier_flag"
	StageSummary    = "validation_summary"
)

// AuditEntrySpec records what one pipeline stage did to the row count.
//
// Entries form an ordered, append-only sequence produced once per run. For
// consecutive entries, RowsAfter of the earlier equals RowsBefore of the later.
type AuditEntrySpec struct {
	// Stage name. One of the Stage* constants.
	Stage string `json:"stage"`

	// Row count entering the stage.
	RowsBefore int `json:"rowsBefore"`

	// Row count leaving the stage.
	RowsAfter int `json:"rowsAfter"`

	// RowsBefore - RowsAfter. Zero for flagging and bookkeeping stages.
	RowsRemoved int `json:"rowsRemoved"`

	// Human-readable justification for the stage.
	Reason string `json:"reason"`
}

// ValidationSummarySpec is the whole-run bookkeeping of a cleaning run.
type ValidationSummarySpec struct {
	// Rows in the raw extract.
	InitialRows int `json:"initialRows"`

	// Rows in the cleaned dataset.
	FinalRows int `json:"finalRows"`

	// InitialRows - FinalRows.
	RowsRemoved int `json:"rowsRemoved"`

	// 100 × RowsRemoved / InitialRows.
	PercentRemoved float64 `json:"percentRemoved"`

	// Cleaned rows carrying the outlier flag.
	OutliersFlagged int `json:"outliersFlagged"`

	// Rows marked as returns (negative quantity) before the validity drop.
	ReturnsMarked int `json:"returnsMarked"`
}
