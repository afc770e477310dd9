package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	csvEmptyDocumentMessageConstant     = "csv document has no header row"
	csvReadErrorTemplateConstant        = "failed to parse csv: %w"
	csvWriteErrorTemplateConstant       = "failed to write csv: %w"
	csvOpenErrorTemplateConstant        = "failed to open %s: %w"
	csvCreateErrorTemplateConstant      = "failed to create %s: %w"
	csvCloseErrorTemplateConstant       = "failed to close %s: %w"
	csvFileParseErrorTemplateConstant   = "%s: %w"
	csvFilePermissionsConstant          = os.FileMode(0o644)
	csvFileCreationFlagsConstant        = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	csvUnexpectedFieldCountTemplateText = "record %d has %d fields; expected at most %d"
)

// ErrEmptyDocument indicates a CSV source without a header row.
var ErrEmptyDocument = errors.New(csvEmptyDocumentMessageConstant)

// Read parses a CSV document whose first record is the header row. Records shorter than
// the header are padded with empty cells; longer records are rejected.
func Read(reader io.Reader) (*Table, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, readError := csvReader.ReadAll()
	if readError != nil {
		return nil, fmt.Errorf(csvReadErrorTemplateConstant, readError)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDocument
	}

	header := records[0]
	rows := records[1:]
	for rowIndex := range rows {
		fieldCount := len(rows[rowIndex])
		if fieldCount > len(header) {
			return nil, fmt.Errorf(csvReadErrorTemplateConstant, fmt.Errorf(csvUnexpectedFieldCountTemplateText, rowIndex+2, fieldCount, len(header)))
		}
		// Short records are completed with missing values.
		for fieldCount < len(header) {
			rows[rowIndex] = append(rows[rowIndex], "")
			fieldCount++
		}
	}

	return New(header, rows)
}

// Write encodes the table as CSV with a header row.
func Write(writer io.Writer, source *Table) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write(source.header); writeError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, writeError)
	}
	if writeError := csvWriter.WriteAll(source.rows); writeError != nil {
		return fmt.Errorf(csvWriteErrorTemplateConstant, writeError)
	}
	return nil
}

// ReadFile loads a table from the CSV file at path.
func ReadFile(path string) (*Table, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(csvOpenErrorTemplateConstant, path, openError)
	}
	defer file.Close()

	loaded, readError := Read(file)
	if readError != nil {
		return nil, fmt.Errorf(csvFileParseErrorTemplateConstant, path, readError)
	}
	return loaded, nil
}

// WriteFile stores the table as CSV at path, replacing existing content.
func WriteFile(path string, source *Table) error {
	file, createError := os.OpenFile(path, csvFileCreationFlagsConstant, csvFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(csvCreateErrorTemplateConstant, path, createError)
	}

	if writeError := Write(file, source); writeError != nil {
		file.Close()
		return writeError
	}

	if closeError := file.Close(); closeError != nil {
		return fmt.Errorf(csvCloseErrorTemplateConstant, path, closeError)
	}
	return nil
}
