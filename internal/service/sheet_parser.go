package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/acadrec/acadrec-backend/internal/model"
)

var (
	ErrUnsupportedFileType = errors.New("only .xlsx and .csv grade sheets are supported")
	ErrFileTooLarge        = errors.New("grade sheet exceeds the upload size limit")
	ErrEmptySheet          = errors.New("grade sheet contains no data rows")
)

// ParseGradeSheet reads roll number / grade pairs from an uploaded
// sheet. The first row is skipped when it looks like a header. Rows
// are returned as raw strings; validation happens during import so a
// malformed row is reported instead of aborting the sheet.
func ParseGradeSheet(r io.Reader, fileName string) ([]model.GradeImportRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return parseXLSXSheet(r)
	case ".csv":
		return parseCSVSheet(r)
	}
	return nil, ErrUnsupportedFileType
}

func parseXLSXSheet(r io.Reader) ([]model.GradeImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return cellsToRows(rows)
}

func parseCSVSheet(r io.Reader) ([]model.GradeImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	return cellsToRows(rows)
}

func cellsToRows(cells [][]string) ([]model.GradeImportRow, error) {
	out := make([]model.GradeImportRow, 0, len(cells))
	for i, row := range cells {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}

		parsed := model.GradeImportRow{}
		if len(row) > 0 {
			parsed.RollNo = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			parsed.Grade = strings.TrimSpace(row[1])
		}
		out = append(out, parsed)
	}

	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

// isHeaderRow treats a non-numeric first cell as a header label.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	if first == "" {
		return false
	}
	for _, r := range first {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
