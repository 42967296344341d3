package timesheet

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	apierrors "payrollcli/internal/errors"
)

// DefaultSkipLines is the number of preamble records in a standard export.
const DefaultSkipLines = 3

// Cell is one untyped value from the source table. An empty field in the
// source is absent, which is distinct from any text value.
type Cell struct {
	Text  string
	Valid bool
}

// Absent is the cell value used for missing or empty fields.
var Absent = Cell{}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Text: s, Valid: true}
}

// String returns the cell text, or "" when absent.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Text
}

// Row is one data record. Cells are positional and line up with RawTable.Columns.
type Row struct {
	Line  int // 1-based line in the decoded source
	Cells []Cell
}

// TableWarning records a non-fatal irregularity found while reading.
type TableWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// RawTable is the untyped result of reading an export. It is never modified
// after ReadTable returns; filters build new tables that share the header.
type RawTable struct {
	Columns  []string
	Rows     []Row
	Warnings []TableWarning

	index map[string]int
}

// NewRawTable builds a table from a header and positional rows. Rows shorter
// than the header are padded with absent cells; longer rows are truncated.
func NewRawTable(columns []string, rows []Row) *RawTable {
	t := &RawTable{
		Columns: columns,
		Rows:    make([]Row, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for _, r := range rows {
		r.Cells = fitCells(r.Cells, len(columns))
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Has reports whether the header contains column.
func (t *RawTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Get returns the cell of row under column, or Absent when the column does not exist.
func (t *RawTable) Get(row Row, column string) Cell {
	i, ok := t.index[column]
	if !ok || i >= len(row.Cells) {
		return Absent
	}
	return row.Cells[i]
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// withRows returns a table sharing the header and warnings of t with a new row set.
func (t *RawTable) withRows(rows []Row) *RawTable {
	return &RawTable{
		Columns:  t.Columns,
		Rows:     rows,
		Warnings: t.Warnings,
		index:    t.index,
	}
}

// keep returns a new table with the rows of t for which pred is true.
func (t *RawTable) keep(pred func(Row) bool) *RawTable {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if pred(r) {
			rows = append(rows, r)
		}
	}
	return t.withRows(rows)
}

// ReadTable parses delimited text into a RawTable. The first skipLines records
// are discarded, the next record is the header and every following record is a
// data row. Lines with no content at all are not records and are never counted.
func ReadTable(r io.Reader, skipLines int) (*RawTable, error) {
	if skipLines < 0 {
		return nil, apierrors.NewAppValidationError(
			fmt.Sprintf("skip lines must not be negative, got %d", skipLines))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apierrors.NewParseError(apierrors.KindTable, "failed to read input", err)
	}

	reader := csv.NewReader(decodeInput(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for i := 0; i < skipLines; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, tableError(err, fmt.Sprintf("input ended inside the %d-line preamble", skipLines))
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, tableError(err, "no header row found")
	}
	columns := headerNames(header)

	var (
		rows     []Row
		warnings []TableWarning
	)
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, tableError(err, "malformed record")
		}
		line, _ := reader.FieldPos(0)

		if n := len(record); n != len(columns) {
			action := "padding with absent cells"
			if n > len(columns) {
				action = "truncating extra cells"
			}
			warnings = append(warnings, TableWarning{
				Line:    line,
				Message: fmt.Sprintf("row has %d cells, header has %d; %s", n, len(columns), action),
			})
		}

		cells := make([]Cell, len(record))
		for i, field := range record {
			if field != "" {
				cells[i] = Text(field)
			}
		}
		rows = append(rows, Row{Line: line, Cells: cells})
	}

	t := NewRawTable(columns, rows)
	t.Warnings = warnings
	return t, nil
}

// headerNames trims header fields, names empty ones by position and renames
// later duplicates "<name>.1", "<name>.2" so every column is addressable.
func headerNames(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

func fitCells(cells []Cell, n int) []Cell {
	switch {
	case len(cells) == n:
		return cells
	case len(cells) > n:
		return cells[:n:n]
	default:
		padded := make([]Cell, n)
		copy(padded, cells)
		return padded
	}
}

func tableError(err error, message string) *apierrors.ParseError {
	pe := apierrors.NewParseError(apierrors.KindTable, message, nil)
	var csvErr *csv.ParseError
	switch {
	case stderrors.Is(err, io.EOF):
	case stderrors.As(err, &csvErr):
		pe.Cause = csvErr.Err
		pe.Line = csvErr.Line
	default:
		pe.Cause = err
	}
	return pe
}
