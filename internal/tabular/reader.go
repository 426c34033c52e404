// Package tabular reads raw extracts from and writes run outputs to flat
// files: CSV, snappy-framed CSV (.csv.sz) and XLSX workbooks.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/xuri/excelize/v2"

	specs "github.com/chrisconley/retailrfm/specs"
)

// ErrUnsupportedFormat is returned for a path whose extension is not one of
// .csv, .csv.sz or .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const utf8BOM = "\uFEFF"

// Format is a file encoding recognised by its extension.
type Format int

const (
	FormatCSV Format = iota
	FormatSnappyCSV
	FormatXLSX
)

// FormatOf picks the Format from the file name.
func FormatOf(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv.sz"):
		return FormatSnappyCSV, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ReadExtractFile opens path and reads it as an extract. sheet selects an
// XLSX worksheet; empty means the first one.
func ReadExtractFile(path, sheet string) (specs.ExtractSpec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return specs.ExtractSpec{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return specs.ExtractSpec{}, fmt.Errorf("failed to open extract: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatSnappyCSV:
		return ReadCSV(snappy.NewReader(f))
	case FormatXLSX:
		return ReadXLSX(f, sheet)
	default:
		return ReadCSV(f)
	}
}

// ReadCSV reads a header row followed by data rows. Rows may be ragged; a
// leading byte order mark is dropped.
func ReadCSV(r io.Reader) (specs.ExtractSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return specs.ExtractSpec{}, nil
	}
	if err != nil {
		return specs.ExtractSpec{}, fmt.Errorf("failed to read header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return specs.ExtractSpec{}, fmt.Errorf("failed to read rows: %w", err)
	}

	return specs.ExtractSpec{Columns: cleanHeader(header), Rows: rows}, nil
}

// ReadXLSX reads one worksheet. Cells are read raw so that numbers keep full
// precision; invoice dates stored as Excel serials are rendered in
// the extract timestamp form.
func ReadXLSX(r io.Reader, sheet string) (specs.ExtractSpec, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return specs.ExtractSpec{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return specs.ExtractSpec{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return specs.ExtractSpec{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return specs.ExtractSpec{}, nil
	}

	extract := specs.ExtractSpec{Columns: cleanHeader(rows[0]), Rows: rows[1:]}
	if idx := extract.ColumnIndex(specs.ColumnInvoiceDate); idx >= 0 {
		for _, row := range extract.Rows {
			if idx < len(row) {
				row[idx] = excelSerialToLayout(row[idx])
			}
		}
	}
	return extract, nil
}

func cleanHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
	}
	return columns
}

// excelSerialToLayout converts a serial date cell. Anything that is not a
// number is returned unchanged for the normalizer to judge.
func excelSerialToLayout(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return specs.FormatInvoiceDate(t.Round(time.Minute))
}
