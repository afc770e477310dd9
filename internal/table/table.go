package table

import "fmt"

const (
	rowWidthMismatchTemplateConstant      = "row %d has %d cells; expected %d"
	columnRangeInvalidTemplateConstant    = "column range [%d, %d) is outside [0, %d]"
	insertionIndexInvalidTemplateConstant = "insertion index %d is outside [0, %d]"
)

// Table stores rows of text cells under an ordered list of column names.
// Every row holds exactly one cell per column; an empty cell is a missing value.
type Table struct {
	header []string
	rows   [][]string
}

// Column pairs a column name with its cell values in row order.
type Column struct {
	Name   string
	Values []string
}

// New validates row widths and returns a table owning copies of the inputs.
func New(header []string, rows [][]string) (*Table, error) {
	duplicatedRows := make([][]string, len(rows))
	for rowIndex := range rows {
		if len(rows[rowIndex]) != len(header) {
			return nil, fmt.Errorf(rowWidthMismatchTemplateConstant, rowIndex, len(rows[rowIndex]), len(header))
		}
		duplicatedRows[rowIndex] = append([]string{}, rows[rowIndex]...)
	}
	return &Table{header: append([]string{}, header...), rows: duplicatedRows}, nil
}

// Header returns a copy of the column names.
func (table *Table) Header() []string {
	return append([]string{}, table.header...)
}

// Rows returns a deep copy of the row data.
func (table *Table) Rows() [][]string {
	return table.Clone().rows
}

// ColumnCount reports the number of columns.
func (table *Table) ColumnCount() int {
	return len(table.header)
}

// RowCount reports the number of data rows.
func (table *Table) RowCount() int {
	return len(table.rows)
}

// Cell returns the cell at the provided row and column.
func (table *Table) Cell(rowIndex int, columnIndex int) string {
	return table.rows[rowIndex][columnIndex]
}

// Clone returns an independent copy.
func (table *Table) Clone() *Table {
	duplicatedRows := make([][]string, len(table.rows))
	for rowIndex := range table.rows {
		duplicatedRows[rowIndex] = append([]string{}, table.rows[rowIndex]...)
	}
	return &Table{header: append([]string{}, table.header...), rows: duplicatedRows}
}

// Equal reports whether both tables have identical column names and cells in the same order.
func (table *Table) Equal(other *Table) bool {
	if table == nil || other == nil {
		return table == other
	}
	if len(table.header) != len(other.header) || len(table.rows) != len(other.rows) {
		return false
	}
	for columnIndex := range table.header {
		if table.header[columnIndex] != other.header[columnIndex] {
			return false
		}
	}
	for rowIndex := range table.rows {
		for columnIndex := range table.rows[rowIndex] {
			if table.rows[rowIndex][columnIndex] != other.rows[rowIndex][columnIndex] {
				return false
			}
		}
	}
	return true
}

// Head returns a table limited to the first rowLimit rows.
func (table *Table) Head(rowLimit int) *Table {
	if rowLimit < 0 || rowLimit > len(table.rows) {
		rowLimit = len(table.rows)
	}
	limited := &Table{header: append([]string{}, table.header...), rows: make([][]string, rowLimit)}
	for rowIndex := 0; rowIndex < rowLimit; rowIndex++ {
		limited.rows[rowIndex] = append([]string{}, table.rows[rowIndex]...)
	}
	return limited
}

// Columns returns the columns in the half-open range [start, end).
func (table *Table) Columns(start int, end int) ([]Column, error) {
	if start < 0 || end < start || end > len(table.header) {
		return nil, fmt.Errorf(columnRangeInvalidTemplateConstant, start, end, len(table.header))
	}
	columns := make([]Column, 0, end-start)
	for columnIndex := start; columnIndex < end; columnIndex++ {
		values := make([]string, len(table.rows))
		for rowIndex := range table.rows {
			values[rowIndex] = table.rows[rowIndex][columnIndex]
		}
		columns = append(columns, Column{Name: table.header[columnIndex], Values: values})
	}
	return columns, nil
}

// WithoutColumns returns a copy lacking the columns in [start, end).
func (table *Table) WithoutColumns(start int, end int) (*Table, error) {
	if start < 0 || end < start || end > len(table.header) {
		return nil, fmt.Errorf(columnRangeInvalidTemplateConstant, start, end, len(table.header))
	}
	result := &Table{
		header: append(append([]string{}, table.header[:start]...), table.header[end:]...),
		rows:   make([][]string, len(table.rows)),
	}
	for rowIndex, row := range table.rows {
		result.rows[rowIndex] = append(append([]string{}, row[:start]...), row[end:]...)
	}
	return result, nil
}

// WithColumns returns a copy with the provided columns spliced in at position.
// When the inserted columns and the table differ in row count the shorter side
// is padded with missing values.
func (table *Table) WithColumns(position int, columns []Column) (*Table, error) {
	if position < 0 || position > len(table.header) {
		return nil, fmt.Errorf(insertionIndexInvalidTemplateConstant, position, len(table.header))
	}

	rowCount := len(table.rows)
	for _, column := range columns {
		if len(column.Values) > rowCount {
			rowCount = len(column.Values)
		}
	}

	header := make([]string, 0, len(table.header)+len(columns))
	header = append(header, table.header[:position]...)
	for _, column := range columns {
		header = append(header, column.Name)
	}
	header = append(header, table.header[position:]...)

	rows := make([][]string, rowCount)
	for rowIndex := 0; rowIndex < rowCount; rowIndex++ {
		existing := make([]string, len(table.header))
		if rowIndex < len(table.rows) {
			copy(existing, table.rows[rowIndex])
		}
		row := make([]string, 0, len(header))
		row = append(row, existing[:position]...)
		for _, column := range columns {
			cell := ""
			if rowIndex < len(column.Values) {
				cell = column.Values[rowIndex]
			}
			row = append(row, cell)
		}
		row = append(row, existing[position:]...)
		rows[rowIndex] = row
	}

	return &Table{header: header, rows: rows}, nil
}

// MapCells returns a copy where every cell is replaced by mapper's result. Column names are untouched.
func (table *Table) MapCells(mapper func(cell string) string) *Table {
	result := table.Clone()
	for rowIndex := range result.rows {
		for columnIndex := range result.rows[rowIndex] {
			result.rows[rowIndex][columnIndex] = mapper(result.rows[rowIndex][columnIndex])
		}
	}
	return result
}
