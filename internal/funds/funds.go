// Package funds reads the local reference table that maps a fund ticker to
// the issuer's detail page URL. iShares detail URLs cannot be derived from
// the ticker, so the iShares provider resolves them here before fetching.
//
// The table is a CSV file with the header row `Ticker,URL`:
//
//	"Ticker","URL"
//	"IVV","https://www.ishares.com/us/products/239726/ishares-core-sp-500-etf"
package funds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrFundNotFound is matched by every lookup miss.
var ErrFundNotFound = errors.New("fund not found")

// NotFoundError reports a ticker with no row in the table.
type NotFoundError struct {
	Ticker string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFundNotFound, e.Ticker)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrFundNotFound
}

// Table is an in-memory ticker to URL table. It is read-only after Load.
type Table struct {
	urls  map[string]string
	order []string
}

// Load reads a table. Tickers are matched exactly; when a ticker appears
// twice the first row wins.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("funds table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read funds table: %w", err)
	}
	if strings.TrimPrefix(header[0], "\ufeff") != "Ticker" || header[1] != "URL" {
		return nil, fmt.Errorf("funds table header is %q, want [Ticker URL]", header)
	}

	t := &Table{urls: make(map[string]string)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read funds table: %w", err)
		}
		if _, dup := t.urls[row[0]]; dup {
			continue
		}
		t.urls[row[0]] = row[1]
		t.order = append(t.order, row[0])
	}
	return t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open funds table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the detail page URL for ticker. A miss returns a
// *NotFoundError.
func (t *Table) Lookup(ticker string) (string, error) {
	url, ok := t.urls[ticker]
	if !ok {
		return "", &NotFoundError{Ticker: ticker}
	}
	return url, nil
}

// Tickers lists the table's tickers in file order.
func (t *Table) Tickers() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of funds in the table.
func (t *Table) Len() int {
	return len(t.order)
}

// File is a table read from disk on first use, so commands that never
// touch iShares do not need the file to exist.
type File struct {
	path string

	once  sync.Once
	table *Table
	err   error
}

// NewFile returns a table backed by path. Nothing is read yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Table loads the file once and returns the table or the load error.
func (f *File) Table() (*Table, error) {
	f.once.Do(func() {
		f.table, f.err = LoadFile(f.path)
	})
	return f.table, f.err
}

// Lookup loads the table if needed and looks ticker up in it.
func (f *File) Lookup(ticker string) (string, error) {
	t, err := f.Table()
	if err != nil {
		return "", err
	}
	return t.Lookup(ticker)
}
