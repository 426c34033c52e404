package internal

import (
	"fmt"

	specs "github.com/chrisconley/retailrfm/specs"
)

// pipelineRow is one row of the table flowing between stages. Stages copy
// rows into fresh slices; no stage writes to its input.
type pipelineRow struct {
	record   ValidatedRecord
	isReturn bool
	derived  bool
	features DerivedFeatures
	outlier  bool
}

// stage is one named step of the cleaning pipeline. requires and ensures
// state the invariants the stage depends on and establishes; salesStages
// lists stages so that each one's requires is an earlier one's ensures.
type stage struct {
	name     string
	requires string
	ensures  string
	apply    func(in []pipelineRow) (out []pipelineRow, reason string, err error)
}

// salesStages is the fixed stage order. It is not a configuration point.
func salesStages(initialRows int) []stage {
	return []stage{
		{
			name:     specs.StageIdentity,
			requires: "normalized records",
			ensures:  "customer ID and invoice ID present",
			apply:    identityFilter,
		},
		{
			name:     specs.StageDuplicates,
			requires: "customer ID and invoice ID present",
			ensures:  "no two rows are exact duplicates",
			apply:    duplicateFilter,
		},
		{
			name:     specs.StageValidity,
			requires: "no two rows are exact duplicates",
			ensures:  "quantity > 0, unit price > 0, timestamp valid",
			apply:    validityFilter,
		},
		{
			name:     specs.StageOutliers,
			requires: "quantity > 0, unit price > 0, timestamp valid",
			ensures:  "features derived, outliers flagged",
			apply:    outlierFlag,
		},
		{
			name:     specs.StageSummary,
			requires: "features derived, outliers flagged",
			ensures:  "run bookkeeping recorded",
			apply:    validationSummary(initialRows),
		},
	}
}

// pipelineRun is the result of running stages: the final table, the audit
// log, and the table each stage produced, keyed by stage name.
type pipelineRun struct {
	rows    []pipelineRow
	audit   AuditLog
	outputs map[string][]pipelineRow
}

func runStages(rows []pipelineRow, stages []stage) (pipelineRun, error) {
	run := pipelineRun{
		rows:    rows,
		outputs: make(map[string][]pipelineRow, len(stages)),
	}

	for _, st := range stages {
		out, reason, err := st.apply(run.rows)
		if err != nil {
			return pipelineRun{}, fmt.Errorf("stage %s: %w", st.name, err)
		}

		entry, err := NewAuditEntry(st.name, len(run.rows), len(out), reason)
		if err != nil {
			return pipelineRun{}, fmt.Errorf("stage %s: %w", st.name, err)
		}
		audit, err := run.audit.Append(entry)
		if err != nil {
			return pipelineRun{}, err
		}

		run.rows = out
		run.audit = audit
		run.outputs[st.name] = out
	}

	return run, nil
}
