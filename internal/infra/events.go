package infra

import specs "github.com/chrisconley/retailrfm/specs"

// ExtractLoadedEvent reports the shape of the extract a run read.
type ExtractLoadedEvent struct {
	RunID   string
	Source  string
	Columns int
	Rows    int
}

func (ExtractLoadedEvent) EventType() EventType { return ExtractLoaded }

// StageCompletedEvent carries one audit entry of a finished cleaning pass.
// Entries are published in audit order once cleaning has returned, followed
// by CleaningCompletedEvent.
type StageCompletedEvent struct {
	RunID string
	Entry specs.AuditEntrySpec
}

func (StageCompletedEvent) EventType() EventType { return StageCompleted }

type CleaningCompletedEvent struct {
	RunID   string
	Summary specs.ValidationSummarySpec
}

func (CleaningCompletedEvent) EventType() EventType { return CleaningCompleted }

type CustomersSegmentedEvent struct {
	RunID      string
	Thresholds specs.RFMThresholdsSpec
	Segments   []specs.SegmentSummarySpec
}

func (CustomersSegmentedEvent) EventType() EventType { return CustomersSegmented }

// OutputPublishedEvent reports one file written to the output store.
type OutputPublishedEvent struct {
	RunID string
	Key   string
	Bytes int64
}

func (OutputPublishedEvent) EventType() EventType { return OutputPublished }

type RunFailedEvent struct {
	RunID string
	Err   error
}

func (RunFailedEvent) EventType() EventType { return RunFailed }
