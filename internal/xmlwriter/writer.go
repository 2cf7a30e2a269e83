// =============================================================================
// OpenHoldings - XML Writer Module
// =============================================================================
//
// This module renders converted holdings as XML.
//
// XML STRUCTURE:
//   One fund renders as a <holdings> root. Several funds are wrapped in a
//   <funds> root holding one <holdings> element each.
//
//   <holdings provider="etfmg" fund="IPAY" format="etfmg/stock">
//     <equity n="1">
//       <name>Alphabet Inc</name>
//       <cusip>38259P508</cusip>
//       <percent_weighting>0.025</percent_weighting>
//       <market_value>1000000</market_value>
//       <ticker>GOOG</ticker>
//       <num_shares>500</num_shares>
//     </equity>
//     <bond n="2">
//       <name>HONEYWELL INTL INC</name>
//       <coupon_rate>0.0041138</coupon_rate>
//       <maturity_date>2022-08-19</maturity_date>
//     </bond>
//     <cash n="3">
//       <currency>USD</currency>
//     </cash>
//   </holdings>
//
// Unset fields are left out. The "n" attribute is the 1-based position of
// the holding in its fund.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/openholdings/internal/converter"
	"github.com/ginjaninja78/openholdings/internal/holding"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// IndexAttribute names the position attribute on each holding.
	// Default: "n"
	IndexAttribute string

	// DateLayout formats date fields.
	// Default: "2006-01-02"
	DateLayout string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		IndexAttribute:        "n",
		DateLayout:            time.DateOnly,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from conversion results.
//
// PARAMETERS:
//   - results: One result per fund, in output order.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func Generate(results ...converter.Result) ([]byte, error) {
	return GenerateWithOptions(DefaultGenerateOptions(), results...)
}

// GenerateWithOptions creates an XML document with custom options.
func GenerateWithOptions(options GenerateOptions, results ...converter.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to render")
	}

	var buffer bytes.Buffer
	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	var root Element
	if len(results) == 1 {
		root = buildFundElement(results[0], options)
	} else {
		root = Element{XMLName: xml.Name{Local: "funds"}}
		for _, res := range results {
			root.Children = append(root.Children, buildFundElement(res, options))
		}
	}

	writeElement(&buffer, root, options.Indent, 0)
	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// Element represents a generic XML element.
type Element struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []Element
}

// buildFundElement constructs the <holdings> element of one fund. A failed
// fund carries its error instead of holdings.
func buildFundElement(res converter.Result, options GenerateOptions) Element {
	element := Element{
		XMLName: xml.Name{Local: "holdings"},
		Attributes: []xml.Attr{
			attr("provider", res.Provider),
			attr("fund", res.Fund),
		},
	}
	if res.Format != "" {
		element.Attributes = append(element.Attributes, attr("format", string(res.Format)))
	}
	if res.Error != nil {
		element.Children = append(element.Children, textElement("error", res.Error.Error()))
		return element
	}

	for i, h := range res.Holdings {
		element.Children = append(element.Children, buildHoldingElement(h, i+1, options))
	}
	return element
}

// buildHoldingElement constructs one holding element named after its kind.
//
// STRUCTURE:
//   <kind n="index">
//     base fields (name, identifiers, weighting, market value)
//     variant fields
//   </kind>
func buildHoldingElement(h holding.Holding, index int, options GenerateOptions) Element {
	f := fields{layout: options.DateLayout}

	f.text("name", h.Name)
	f.text("cusip", h.CUSIP)
	f.text("isin", h.ISIN)
	f.text("figi", h.FIGI)
	f.text("sedol", h.SEDOL)
	f.number("percent_weighting", h.PercentWeighting)
	f.number("market_value", h.MarketValue)

	switch h.Kind {
	case holding.KindEquity:
		f.text("ticker", h.Equity.Ticker)
		f.number("num_shares", h.Equity.NumShares)
		f.text("sector", h.Equity.Sector)
	case holding.KindBond:
		f.number("coupon_rate", h.Bond.CouponRate)
		f.text("rating", h.Bond.Rating)
		f.date("effective_date", h.Bond.EffectiveDate)
		f.date("maturity_date", h.Bond.MaturityDate)
		f.date("next_call_date", h.Bond.NextCallDate)
		f.number("quantity_held", h.Bond.QuantityHeld)
		f.text("sector", h.Bond.Sector)
	case holding.KindFuture:
		f.text("contract_code", h.Future.ContractCode)
		f.date("contract_expiry_date", h.Future.ContractExpiryDate)
		f.number("quantity_held", h.Future.QuantityHeld)
	case holding.KindCash:
		f.text("currency", &h.Cash.Currency)
	}

	return Element{
		XMLName:    xml.Name{Local: string(h.Kind)},
		Attributes: []xml.Attr{attr(options.IndexAttribute, strconv.Itoa(index))},
		Children:   f.children,
	}
}

// fields collects the child elements of a holding, skipping unset values.
type fields struct {
	layout   string
	children []Element
}

func (f *fields) text(name string, v *string) {
	if v == nil || *v == "" {
		return
	}
	f.children = append(f.children, textElement(name, *v))
}

// number renders the shortest decimal form, never an exponent.
func (f *fields) number(name string, v *float64) {
	if v == nil {
		return
	}
	f.children = append(f.children, textElement(name, decimal.NewFromFloat(*v).String()))
}

func (f *fields) date(name string, v *time.Time) {
	if v == nil {
		return
	}
	f.children = append(f.children, textElement(name, v.Format(f.layout)))
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func textElement(name, value string) Element {
	return Element{XMLName: xml.Name{Local: name}, Value: value}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element Element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	for _, a := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", a.Name.Local, escapeXML(a.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")
	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes text and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	// EscapeText only fails when the writer does; bytes.Buffer never does.
	_ = xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}
