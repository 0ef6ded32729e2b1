// Package dataset holds influencer tables as loaded from a source and the
// cleaning step that turns raw Followers text into counts.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"influencers/internal/followers"
	"influencers/internal/label"
)

const (
	ColumnFollowers = "Followers"
	ColumnPlatform  = "Platform"
	ColumnNiche     = "Niche"
)

var (
	ErrMissingColumn = errors.New("missing_column")
	ErrEmptyTable    = errors.New("empty_table")
)

// Source loads a raw table from somewhere: a file, a spreadsheet, a URL.
type Source interface {
	Load(ctx context.Context) (Table, error)
}

// Table is a raw, untyped table. Rows may be shorter than Header.
type Table struct {
	Header []string
	Rows   [][]string
}

// FromValues builds a table from a row-major grid where the first row is the
// header. Cells of any type are converted to text.
func FromValues(values [][]any) Table {
	if len(values) == 0 {
		return Table{}
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = cellText(v)
	}
	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = cellText(v)
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

// FromStrings builds a table from text rows where the first row is the header.
func FromStrings(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	return Table{Header: values[0], Rows: values[1:]}
}

func cellText(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Record is one cleaned row.
type Record struct {
	Cells     map[string]string `json:"cells"`
	Followers followers.Count   `json:"-"`
}

// Get returns the text of a column, or "" when the column is missing.
func (r Record) Get(column string) string {
	return r.Cells[column]
}

// Dataset is a cleaned table. Columns keeps the source order.
type Dataset struct {
	Columns []string
	Records []Record
	// Dropped counts rows removed because their Followers value was absent.
	Dropped int
}

func (d Dataset) Has(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

func (d Dataset) Len() int {
	return len(d.Records)
}

type CleanOptions struct {
	// DropUnparsed removes rows whose Followers value is absent.
	DropUnparsed bool
}

// Clean drops blank rows, checks for the Followers column and normalizes it.
// Columns with a blank header are skipped; repeated headers get a numeric
// suffix.
func Clean(t Table, opts CleanOptions) (Dataset, error) {
	columns := make([]string, 0, len(t.Header))
	index := make([]int, 0, len(t.Header))
	seen := map[string]struct{}{}
	for i, h := range t.Header {
		name := label.Header(h)
		if name == "" {
			continue
		}
		name = uniqueName(name, seen)
		seen[name] = struct{}{}
		columns = append(columns, name)
		index = append(index, i)
	}
	if _, ok := seen[ColumnFollowers]; !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnFollowers)
	}

	ds := Dataset{Columns: columns, Records: make([]Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		cells := make(map[string]string, len(columns))
		for j, col := range columns {
			if idx := index[j]; idx < len(row) {
				cells[col] = row[idx]
			} else {
				cells[col] = ""
			}
		}
		count := followers.Parse(cells[ColumnFollowers])
		if !count.Valid && opts.DropUnparsed {
			ds.Dropped++
			continue
		}
		ds.Records = append(ds.Records, Record{Cells: cells, Followers: count})
	}
	return ds, nil
}

// uniqueName suffixes repeated headers as "Name.1", "Name.2", ... so no
// column is lost.
func uniqueName(name string, seen map[string]struct{}) string {
	if _, ok := seen[name]; !ok {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "." + strconv.Itoa(i)
		if _, ok := seen[candidate]; !ok {
			return candidate
		}
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
