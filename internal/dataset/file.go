package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrFileNotFound      = errors.New("file_not_found")
	ErrUnsupportedFormat = errors.New("unsupported_format")
)

// FileSource reads a local .csv or .xlsx file. Sheet picks the workbook tab
// for .xlsx files; the first tab is used when it is empty.
type FileSource struct {
	Path  string
	Sheet string
}

func (s FileSource) Load(ctx context.Context) (Table, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		f, err := os.Open(s.Path)
		if err != nil {
			return Table{}, fileError(s.Path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return readXLSX(s.Path, s.Sheet)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Path)
	}
}

// ReadCSV reads a comma-separated table whose first record is the header.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyTable
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	return FromStrings(records), nil
}

func readXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fileError(path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, ErrEmptyTable
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}
	return FromStrings(rows), nil
}

func fileError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return err
}
