package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrNoHeader = errors.New("csv: header row missing")

// ParseStationsCSV reads a header-driven CSV. Each data row becomes a Row keyed by
// the header names; numeric strings are typed as numbers and blank lines are skipped.
func ParseStationsCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return nil, ErrNoHeader
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			if i >= len(rec) {
				break
			}
			row[h] = typed(rec[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// typed turns a cell into a Value; only finite decimal numbers are typed.
func typed(s string) Value {
	t := strings.TrimSpace(s)
	v := Value{Raw: t}
	if t == "" {
		return v
	}
	f, err := strconv.ParseFloat(t, 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && looksNumeric(t) {
		v.Num, v.IsNum = f, true
	}
	return v
}

// looksNumeric rejects forms ParseFloat accepts but a spreadsheet would not
// treat as a number ("0x1p4", "1_000").
func looksNumeric(s string) bool {
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
		case ch == '.', ch == '-', ch == '+', ch == 'e', ch == 'E':
		default:
			return false
		}
	}
	return true
}
