// Package dataset loads the raw housing table, splits it into train and test
// partitions and separates predictors from the target column.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// missingValues are the cell spellings counted as missing.
var missingValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
}

// IsMissing reports whether a cell holds a missing value.
func IsMissing(cell string) bool {
	_, ok := missingValues[strings.TrimSpace(cell)]
	return ok
}

// Table is an ordered table of rows with named columns. Cells are kept as
// strings so that a table written and read back is textually identical.
type Table struct {
	df dataframe.DataFrame
}

// ReadCSV reads a comma separated table with a header row.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(err, "read csv")
	}
	return FromRecords(records)
}

// ReadCSVFile opens path and reads it with ReadCSV. A missing file is
// reported with an error satisfying errors.Is(err, os.ErrNotExist).
func ReadCSVFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}

// FromRecords builds a Table from a header row followed by data rows.
func FromRecords(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, errors.NewValueError("dataset.FromRecords", "missing header row")
	}
	if len(records) == 1 {
		return NewTable(records[0], make([][]string, len(records[0])))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return Table{}, errors.Wrap(df.Err, "load records")
	}
	return Table{df: df}, nil
}

// NewTable builds a Table from column-major data. columns[i] holds the cells
// of names[i]; all columns must have the same length.
func NewTable(names []string, columns [][]string) (Table, error) {
	if len(names) == 0 {
		return Table{}, errors.NewValueError("dataset.NewTable", "table needs at least one column")
	}
	if len(names) != len(columns) {
		return Table{}, errors.NewDimensionError("dataset.NewTable", len(names), len(columns), 1)
	}
	cols := make([]series.Series, len(names))
	for i, name := range names {
		values := columns[i]
		if values == nil {
			values = []string{}
		}
		cols[i] = series.New(values, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return Table{}, errors.Wrap(df.Err, "build table")
	}
	return Table{df: df}, nil
}

// WriteCSV writes the table with its header row and without a row index.
func (t Table) WriteCSV(w io.Writer) error {
	return t.df.WriteCSV(w, dataframe.WriteHeader(true))
}

// Names returns the column names in order.
func (t Table) Names() []string { return t.df.Names() }

// Nrow returns the number of data rows.
func (t Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns.
func (t Table) Ncol() int { return t.df.Ncol() }

// HasColumn reports whether the table has a column called name.
func (t Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the cells of one column.
func (t Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, errors.NewMissingColumnError("Table.Column", name, t.Names())
	}
	return t.df.Col(name).Records(), nil
}

// Columns returns every column's cells in column order.
func (t Table) Columns() [][]string {
	out := make([][]string, 0, t.Ncol())
	for _, name := range t.df.Names() {
		out = append(out, t.df.Col(name).Records())
	}
	return out
}

// Drop returns a copy of the table without the named columns.
func (t Table) Drop(names ...string) (Table, error) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return Table{}, errors.NewMissingColumnError("Table.Drop", n, t.Names())
		}
	}
	df := t.df.Drop(names)
	if df.Err != nil {
		return Table{}, errors.Wrap(df.Err, "drop columns")
	}
	return Table{df: df}, nil
}

// Select returns a copy of the table with only the named columns, in the
// order given.
func (t Table) Select(names ...string) (Table, error) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return Table{}, errors.NewMissingColumnError("Table.Select", n, t.Names())
		}
	}
	df := t.df.Select(names)
	if df.Err != nil {
		return Table{}, errors.Wrap(df.Err, "select columns")
	}
	return Table{df: df}, nil
}

// Subset returns the rows at the given indexes, in the given order.
func (t Table) Subset(rows []int) (Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.Nrow() {
			return Table{}, errors.NewValueError("Table.Subset", "row index out of range")
		}
	}
	df := t.df.Subset(rows)
	if df.Err != nil {
		return Table{}, errors.Wrap(df.Err, "subset rows")
	}
	return Table{df: df}, nil
}

// Records returns the header row followed by every data row.
func (t Table) Records() [][]string {
	return t.df.Records()
}

// MissingCounts returns the number of missing cells per column.
func (t Table) MissingCounts() map[string]int {
	counts := make(map[string]int, t.Ncol())
	for _, name := range t.df.Names() {
		n := 0
		for _, cell := range t.df.Col(name).Records() {
			if IsMissing(cell) {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// Head renders the first n rows for log output.
func (t Table) Head(n int) string {
	if n > t.Nrow() {
		n = t.Nrow()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.df.Subset(rows).String()
}
