// =============================================================================
// OpenHoldings - JSON Decoder
// =============================================================================
//
// This module decodes array-shaped JSON holdings documents (iShares) into a
// positional provider.Batch. The document is one object; a JSONPath
// expression selects the array of holdings inside it, and every element of
// that array is itself an array of cells:
//
//   {"aaData": [
//     ["AAPL", "APPLE INC", "Information Technology", "Equity",
//      {"display": "$1,000.00", "raw": 1000}, {"display": "6.54", "raw": 6.54}, ...],
//     ...
//   ]}
//
// Cells are kept as decoded (string, float64, map or nil). Interpreting
// display/raw objects is left to provider.Record.
//
// =============================================================================

package jsonparser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ginjaninja78/openholdings/internal/provider"
)

// DefaultPath selects the holdings array of an iShares document.
const DefaultPath = "$.aaData"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a JSON document and returns the arrays selected by path as
// positional records.
//
// PARAMETERS:
//   - r: The JSON document. A leading UTF-8 byte order mark is ignored.
//   - path: A JSONPath expression selecting an array of arrays.
//
// RETURNS:
//   - A Batch with no Fields and one Record per selected element.
//   - An error if the document is not JSON or path does not select an
//     array of arrays.
func Parse(r io.Reader, path string) (*provider.Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to select %q: %w", path, err)
	}

	elements, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("%q selects %T, not an array", path, selected)
	}

	batch := &provider.Batch{Records: make([]provider.Record, 0, len(elements))}
	for i, element := range elements {
		cells, ok := element.([]any)
		if !ok {
			return nil, fmt.Errorf("%q element %d is %T, not an array", path, i, element)
		}
		batch.Records = append(batch.Records, provider.Record{Row: i + 1, Cells: cells})
	}

	return batch, nil
}
