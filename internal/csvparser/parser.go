// =============================================================================
// OpenHoldings - CSV Decoder
// =============================================================================
//
// This module decodes CSV holdings exports (ETFMG, Invesco) into a keyed
// provider.Batch. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - A UTF-8 byte order mark before the header
//   - Preamble lines before the header row
//   - Ragged rows (missing trailing columns become empty strings)
//
// The header row becomes Batch.Fields in document order, so format detection
// can look for provider-specific column names.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/openholdings/internal/provider"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a CSV document is read.
type Settings struct {
	// Delimiter separates fields. Accepts ",", "|", ";", "\t" or "tab".
	// Default: ","
	Delimiter string

	// SkipRows is the number of lines before the header row.
	// Default: 0
	SkipRows int
}

// DefaultSettings returns comma-separated settings with the header on line 1.
func DefaultSettings() Settings {
	return Settings{Delimiter: ","}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV document and returns its records keyed by header name.
//
// PARAMETERS:
//   - r: The CSV document.
//   - settings: Delimiter and preamble settings.
//
// RETURNS:
//   - A Batch whose Fields are the cleaned headers.
//   - An error if the document is empty or cannot be read.
func Parse(r io.Reader, settings Settings) (*provider.Batch, error) {
	reader := bufio.NewReader(r)
	if err := skipBOM(reader); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) <= settings.SkipRows {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[settings.SkipRows])
	batch := &provider.Batch{Fields: headers}

	for _, row := range allRows[settings.SkipRows+1:] {
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				fields[header] = strings.TrimSpace(row[i])
			} else {
				fields[header] = ""
			}
		}

		batch.Records = append(batch.Records, provider.Record{
			Row:    len(batch.Records) + 1,
			Fields: fields,
		})
	}

	return batch, nil
}

// configureReader applies the delimiter and the lenient parsing options
// holdings exports need.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		reader.Comma = ','
	}

	// Footnote lines at the end of some exports have fewer columns.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// skipBOM discards a leading UTF-8 byte order mark.
func skipBOM(reader *bufio.Reader) error {
	head, err := reader.Peek(3)
	if err != nil && err != io.EOF {
		return err
	}
	if bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, err = reader.Discard(3)
	}
	return err
}

// cleanHeaders trims headers and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
