package internal

import (
	"fmt"

	specs "github.com/chrisconley/retailrfm/specs"
)

type AuditEntry struct {
	stage      string
	rowsBefore int
	rowsAfter  int
	reason     string
}

func NewAuditEntry(stage string, rowsBefore, rowsAfter int, reason string) (AuditEntry, error) {
	if stage == "" {
		return AuditEntry{}, fmt.Errorf("stage is required")
	}
	if rowsBefore < 0 || rowsAfter < 0 {
		return AuditEntry{}, fmt.Errorf("row counts cannot be negative")
	}
	if rowsAfter > rowsBefore {
		return AuditEntry{}, fmt.Errorf("stage %s cannot add rows (%d -> %d)", stage, rowsBefore, rowsAfter)
	}
	return AuditEntry{
		stage:      stage,
		rowsBefore: rowsBefore,
		rowsAfter:  rowsAfter,
		reason:     reason,
	}, nil
}

func (e AuditEntry) Stage() string {
	return e.stage
}

func (e AuditEntry) RowsBefore() int {
	return e.rowsBefore
}

func (e AuditEntry) RowsAfter() int {
	return e.rowsAfter
}

func (e AuditEntry) RowsRemoved() int {
	return e.rowsBefore - e.rowsAfter
}

func (e AuditEntry) Reason() string {
	return e.reason
}

func (e AuditEntry) ToSpec() specs.AuditEntrySpec {
	return specs.AuditEntrySpec{
		Stage:       e.stage,
		RowsBefore:  e.rowsBefore,
		RowsAfter:   e.rowsAfter,
		RowsRemoved: e.RowsRemoved(),
		Reason:      e.reason,
	}
}

// AuditLog is an append-only sequence of entries. Append never modifies the
// receiver; it returns a new log.
type AuditLog struct {
	entries []AuditEntry
}

// Append returns a log with entry added after every existing entry. The entry
// must start from the row count the previous entry ended with.
func (l AuditLog) Append(entry AuditEntry) (AuditLog, error) {
	if n := len(l.entries); n > 0 && l.entries[n-1].rowsAfter != entry.rowsBefore {
		return AuditLog{}, fmt.Errorf("stage %s starts with %d rows but %s ended with %d",
			entry.stage, entry.rowsBefore, l.entries[n-1].stage, l.entries[n-1].rowsAfter)
	}
	entries := make([]AuditEntry, len(l.entries), len(l.entries)+1)
	copy(entries, l.entries)
	return AuditLog{entries: append(entries, entry)}, nil
}

func (l AuditLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in execution order.
func (l AuditLog) Entries() []AuditEntry {
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l AuditLog) ToSpecs() []specs.AuditEntrySpec {
	out := make([]specs.AuditEntrySpec, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.ToSpec()
	}
	return out
}
