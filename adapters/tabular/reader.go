// Package tabular loads historical datasets from CSV and XLSX files into
// frames, enforcing the numeric contract at the boundary.
package tabular

import (
	"encoding/csv"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"procova/domain/core"
	"procova/domain/trial"

	"github.com/xuri/excelize/v2"
)

// Reader handles reading CSV and XLSX historical datasets
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader for the given file, dispatching on extension
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a frame. Header cells become column names; data
// cells must parse as numbers, empty cells become missing values (NaN).
func (r *Reader) Read() (*trial.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, core.NewPreconditionError("data.hist", "file not found: "+r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readXLSX()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, core.NewPreconditionError("data.hist", "must have a header row and at least one data row")
	}
	return buildFrame(rows)
}

func (r *Reader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.NewPreconditionError("data.hist", "cannot open file: "+err.Error())
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, core.NewDataShapeError(r.filePath, "is not well-formed CSV: "+err.Error())
	}
	log.Printf("[Reader] CSV file read (%d rows)", len(rows))
	return rows, nil
}

func (r *Reader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewPreconditionError("data.hist", "cannot open file: "+err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewDataShapeError(r.filePath, "has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewDataShapeError(sheets[0], "cannot be read: "+err.Error())
	}
	log.Printf("[Reader] XLSX sheet %q read (%d rows)", sheets[0], len(rows))
	return rows, nil
}

func buildFrame(rows [][]string) (*trial.Frame, error) {
	header := rows[0]
	names := make([]string, 0, len(header))
	cols := make(map[string][]float64, len(header))
	for _, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, core.NewDataShapeError("header", "contains an empty column name")
		}
		if _, dup := cols[name]; dup {
			return nil, core.NewDataShapeError(name, "appears more than once in the header")
		}
		names = append(names, name)
		cols[name] = make([]float64, 0, len(rows)-1)
	}

	for rowIdx, row := range rows[1:] {
		for colIdx, name := range names {
			cell := ""
			if colIdx < len(row) {
				cell = strings.TrimSpace(row[colIdx])
			}
			if cell == "" {
				cols[name] = append(cols[name], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, core.NewDataShapeError(name, "has non-numeric value "+strconv.Quote(cell)+" at data row "+strconv.Itoa(rowIdx+1))
			}
			cols[name] = append(cols[name], v)
		}
	}
	return trial.NewFrame(names, cols)
}
