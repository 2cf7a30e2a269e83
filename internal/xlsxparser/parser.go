// =============================================================================
// OpenHoldings - XLSX Decoder
// =============================================================================
//
// This module decodes spreadsheet holdings exports (SPDR, VanEck) into a
// keyed provider.Batch. Issuer spreadsheets are not plain tables: they open
// with a few lines of fund metadata, then a header row, then the holdings,
// and often a block of disclaimers after a blank line.
//
// EXPECTED STRUCTURE (SPDR example):
//
//   | Row | Column A           | Column B | Column C   | ... | Column E | ...
//   |-----|--------------------|----------|------------|-----|----------|----
//   | 1   | Fund Name:         | SPDR...  |            |     |          |
//   | 4   | Holdings:          | As of... |            |     |          |
//   | 5   | Name               | Ticker   | Identifier | ... | Weight   | ...
//   | 6   | APPLE INC          | AAPL     | 037833100  | ... | 6.54     | ...
//   | ... |                    |          |            |     |          |
//   | 510 |                    |          |            |     |          |
//   | 512 | Past performance...|          |            |     |          |
//
// The header row is located by a marker cell rather than a fixed index, so
// changes to the metadata block do not shift the table.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/openholdings/internal/provider"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings defines how the holdings table is found inside a workbook.
type Settings struct {
	// Sheet is the sheet to read. Empty means the active sheet.
	Sheet string

	// HeaderMarker is a cell value that only appears in the header row.
	// The first row containing it becomes the header.
	HeaderMarker string

	// StopColumn names a header whose blank value ends the table.
	// Empty means read to the end of the sheet, skipping blank rows.
	StopColumn string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a workbook and returns the rows below the header row keyed by
// header name.
//
// PARAMETERS:
//   - r: The XLSX document.
//   - settings: How to locate the header row and the end of the table.
//
// RETURNS:
//   - A Batch whose Fields are the header row values.
//   - An error if the workbook cannot be opened or has no header row.
func Parse(r io.Reader, settings Settings) (*provider.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerIndex := findHeaderRow(rows, settings.HeaderMarker)
	if headerIndex < 0 {
		return nil, fmt.Errorf("no header row containing %q in sheet %q", settings.HeaderMarker, sheetName)
	}

	headers := cleanHeaders(rows[headerIndex])
	batch := &provider.Batch{Fields: headers}

	stopAt := -1
	if settings.StopColumn != "" {
		stopAt = slices.Index(headers, settings.StopColumn)
	}

	for _, row := range rows[headerIndex+1:] {
		if stopAt >= 0 && cellAt(row, stopAt) == "" {
			break
		}
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			fields[header] = cellAt(row, i)
		}

		batch.Records = append(batch.Records, provider.Record{
			Row:    len(batch.Records) + 1,
			Fields: fields,
		})
	}

	return batch, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findHeaderRow returns the index of the first row containing marker, or -1.
// An empty marker selects the first non-empty row.
func findHeaderRow(rows [][]string, marker string) int {
	for i, row := range rows {
		if marker == "" {
			if !isRowEmpty(row) {
				return i
			}
			continue
		}
		for _, cell := range row {
			if strings.TrimSpace(cell) == marker {
				return i
			}
		}
	}
	return -1
}

// cellAt returns the trimmed cell value, or "" past the end of a short row.
// GetRows drops trailing empty cells, so short rows are normal.
func cellAt(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// cleanHeaders trims headers and names empty ones by column letter.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		header := strings.TrimSpace(cell)
		if header == "" {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				name = fmt.Sprint(i + 1)
			}
			header = "Column_" + name
		}
		headers[i] = header
	}
	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
