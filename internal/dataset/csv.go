// Croptrainer - Crop Recommendation Model Training Pipeline
// Copyright 2026 Croptrainer Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/agrosense/croptrainer

package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV file with a header row into a Table.
//
// Cells are parsed eagerly: anything that parses as a float is numeric,
// missing-value spellings ("", NA, NaN, null, ...) are flagged, everything
// else stays a string.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(bufio.NewReader(f))
}

// ReadCSV reads CSV content with a header row from r.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate header column %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	table := &Table{Columns: columns}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row at line %d: %w", line, err)
		}

		row := make(Record, len(columns))
		for i, col := range columns {
			row[col] = ParseValue(rec[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseValue classifies one raw cell: missing tokens, numeric spellings,
// and everything else as a plain string.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	if isMissingToken(raw) {
		return Value{Raw: raw, Missing: true}
	}
	if num, err := strconv.ParseFloat(raw, 64); err == nil {
		return Value{Raw: raw, Num: num, IsNum: true}
	}
	return Value{Raw: raw}
}
