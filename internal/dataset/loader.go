package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"passenger-satisfaction-go/internal/types"
)

// Load reads the first sheet of a workbook file.
func Load(path string) (types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return types.Table{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readFirstSheet(f)
}

// Read parses an uploaded workbook. The first row is the header; every
// following non-empty row becomes a record keyed by header name. A sheet
// with only a header yields a table without rows.
func Read(r io.Reader) (types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return types.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readFirstSheet(f)
}

func readFirstSheet(f *excelize.File) (types.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return types.Table{}, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return types.Table{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return types.Table{}, fmt.Errorf("no header row")
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, strings.TrimSpace(h))
	}
	table := types.Table{Columns: header}
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		rec := make(types.RawRecord, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			// GetRows drops trailing empty cells
			if i < len(r) {
				rec[h] = r[i]
			} else {
				rec[h] = ""
			}
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
