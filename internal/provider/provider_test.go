package provider

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/openholdings/internal/holding"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string                                     { return s.name }
func (s stubProvider) Fetch(context.Context, string) (*Batch, error)    { return &Batch{}, nil }
func (s stubProvider) Decode(io.Reader) (*Batch, error)                 { return &Batch{}, nil }
func (s stubProvider) Detect(*Batch) Format                             { return FormatUnknown }
func (s stubProvider) Extract(Format, *Batch) ([]holding.FieldBag, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubProvider{"etfmg"}, stubProvider{"iShares"})

	p, err := r.Lookup("ETFMG")
	require.NoError(t, err)
	assert.Equal(t, "etfmg", p.Name())

	_, err = r.Lookup("ishares")
	require.NoError(t, err)

	_, err = r.Lookup("vanguard")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []string{"etfmg", "ishares"}, r.Names())
}

func TestRecordField(t *testing.T) {
	rec := Record{Row: 3, Fields: map[string]string{"CUSIP": "38259P508"}}

	v, err := rec.Field("CUSIP")
	require.NoError(t, err)
	assert.Equal(t, "38259P508", v)

	_, err = rec.Field("Shares")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 3, mre.Row)
	assert.Equal(t, "Shares", mre.Field)
}

func TestRecordCells(t *testing.T) {
	rec := Record{Row: 1, Cells: []any{
		"AAPL",
		map[string]any{"display": "$1,000.00", "raw": 1000.0},
		" 2.5 ",
		nil,
		"-",
		map[string]any{"raw": 20310815.0},
	}}

	s, err := rec.CellString(0)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s)

	s, err = rec.CellString(1)
	require.NoError(t, err)
	assert.Equal(t, "$1,000.00", s)

	f, ok, err := rec.CellNumber(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1000.0, f)

	f, ok, err = rec.CellNumber(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok, err = rec.CellNumber(3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = rec.CellNumber(4)
	require.NoError(t, err)
	assert.False(t, ok)

	s, err = rec.CellString(5)
	require.NoError(t, err)
	assert.Equal(t, "20310815", s)

	_, err = rec.Cell(6)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestBatchShape(t *testing.T) {
	b := &Batch{}
	assert.Equal(t, -1, b.Width())
	assert.False(t, b.HasField("StockTicker"))

	b = &Batch{
		Fields:  []string{"StockTicker", "CUSIP"},
		Records: []Record{{Cells: make([]any, 18)}},
	}
	assert.Equal(t, 18, b.Width())
	assert.True(t, b.HasField("StockTicker"))
}

func TestRecordRequire(t *testing.T) {
	rec := Record{Row: 2, Fields: map[string]string{"Name": "Alphabet Inc", "CUSIP": ""}}

	fields, err := rec.Require("Name", "CUSIP")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Name": "Alphabet Inc", "CUSIP": ""}, fields)

	_, err = rec.Require("Name", "Weight")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestExpandURL(t *testing.T) {
	assert.Equal(t,
		"https://example.com/IPAY/ipay.csv",
		ExpandURL("https://example.com/{ticker}/{ticker_lower}.csv", "IPAY"))
	assert.Equal(t, "https://example.com/static.csv", ExpandURL("https://example.com/static.csv", "IPAY"))
}

type readerStager struct {
	doc string
	err error
}

func (s readerStager) Stage(_ context.Context, _, _, _ string, fn func(io.Reader) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(strings.NewReader(s.doc))
}

func TestFetchWith(t *testing.T) {
	decode := func(r io.Reader) (*Batch, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("empty document")
		}
		return &Batch{Fields: strings.Split(string(data), ",")}, nil
	}

	b, err := FetchWith(context.Background(), readerStager{doc: "A,B"}, "u", "csv", "T", decode)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, b.Fields)

	_, err = FetchWith(context.Background(), readerStager{}, "u", "csv", "T", decode)
	assert.EqualError(t, err, "empty document")

	stageErr := errors.New("download failed")
	_, err = FetchWith(context.Background(), readerStager{err: stageErr}, "u", "csv", "T", decode)
	assert.ErrorIs(t, err, stageErr)
}

func TestExtractEach(t *testing.T) {
	b := &Batch{Records: []Record{
		{Row: 1, Fields: map[string]string{"Name": "A"}},
		{Row: 2, Fields: map[string]string{"Name": "B"}},
	}}
	name := func(r Record) (holding.FieldBag, error) {
		v, err := r.Field("Name")
		return holding.FieldBag{Name: &v}, err
	}

	bags, err := ExtractEach(b, name)
	require.NoError(t, err)
	require.Len(t, bags, 2)
	assert.Equal(t, "B", *bags[1].Name)

	b.Records = append(b.Records, Record{Row: 3, Fields: map[string]string{}})
	bags, err = ExtractEach(b, name)
	assert.Nil(t, bags)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	bags, err = ExtractEach(&Batch{}, name)
	require.NoError(t, err)
	assert.Empty(t, bags)
}
