package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema marks input that the pipeline refuses to start on.
var ErrSchema = errors.New("schema error")

// ErrEmptyInput is returned for an extract with a valid header and no rows.
var ErrEmptyInput = fmt.Errorf("%w: extract has no data rows", ErrSchema)

// SchemaError lists the required columns an extract is missing.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
