package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/xuri/excelize/v2"
)

// Table is one named output. Name doubles as file base name and sheet name.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteCSV writes the header and rows of t to w.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// WriteSnappyCSV writes t as CSV inside a snappy framed stream.
func WriteSnappyCSV(w io.Writer, t Table) error {
	sw := snappy.NewBufferedWriter(w)
	if err := WriteCSV(sw, t); err != nil {
		sw.Close()
		return err
	}
	return sw.Close()
}

// WriteWorkbook writes every table to its own sheet of one XLSX workbook,
// in order. Table names must be unique.
func WriteWorkbook(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), t.Name)
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return fmt.Errorf("failed to stream sheet %s: %w", t.Name, err)
	}

	rows := append([][]string{t.Header}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, t.Name, err)
		}
	}
	return sw.Flush()
}

// WorkbookName is the file name of the XLSX output.
const WorkbookName = "rfm_report.xlsx"

// WriteFiles renders tables into dir and returns the written paths. The
// format is "csv" (one file per table, .csv.sz when compress is set) or
// "xlsx" (one workbook).
func WriteFiles(dir, format string, compress bool, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if format == "xlsx" {
		path := filepath.Join(dir, WorkbookName)
		if err := writeFile(path, func(w io.Writer) error { return WriteWorkbook(w, tables) }); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		write := func(w io.Writer) error { return WriteCSV(w, t) }
		if compress {
			path += ".sz"
			write = func(w io.Writer) error { return WriteSnappyCSV(w, t) }
		}
		if err := writeFile(path, write); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}
