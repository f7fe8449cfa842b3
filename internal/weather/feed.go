package weather

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Citypage is the subset of an Environment Canada citypage document the
// normalizer reads. Every node is optional; the root element name is not
// checked.
type Citypage struct {
	Current   CurrentConditions `xml:"currentConditions"`
	Forecasts []ForecastPeriod  `xml:"forecastGroup>forecast"`
}

type CurrentConditions struct {
	Temperature *TextNode `xml:"temperature"`
	WindSpeed   *TextNode `xml:"wind>speed"`
}

// ForecastPeriod is one entry of the forecast group, typically alternating
// day and night.
type ForecastPeriod struct {
	Accumulations []Accumulation `xml:"precipitation>accumulation"`
	Temperatures  []TextNode     `xml:"temperatures>temperature"`
	WindSpeeds    []TextNode     `xml:"winds>wind>speed"`
}

type Accumulation struct {
	Names   []TextNode `xml:"name"`
	Amounts []TextNode `xml:"amount"`
}

// AccumulationAmount returns the first accumulation amount in document
// order, or nil.
func (p ForecastPeriod) AccumulationAmount() *TextNode {
	for i := range p.Accumulations {
		if n := firstNode(p.Accumulations[i].Amounts); n != nil {
			return n
		}
	}
	return nil
}

// AccumulationName returns the first accumulation name in document order,
// or nil.
func (p ForecastPeriod) AccumulationName() *TextNode {
	for i := range p.Accumulations {
		if n := firstNode(p.Accumulations[i].Names); n != nil {
			return n
		}
	}
	return nil
}

// TextNode is an element whose character data may or may not be numeric.
type TextNode struct {
	Text  string `xml:",chardata"`
	Units string `xml:"units,attr"`
}

// ParseCitypage decodes a citypage XML document. Non-UTF-8 declarations
// such as ISO-8859-1 are transcoded.
func ParseCitypage(body []byte) (*Citypage, error) {
	var doc Citypage
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, upstreamMalformed(fmt.Errorf("parse citypage xml: %w", err))
	}
	if err := expectEOF(dec); err != nil {
		return nil, upstreamMalformed(fmt.Errorf("parse citypage xml: %w", err))
	}
	return &doc, nil
}

// expectEOF accepts only whitespace, comments and processing instructions
// after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("unexpected text after root element at offset %d", dec.InputOffset())
			}
		default:
			return fmt.Errorf("unexpected content after root element at offset %d", dec.InputOffset())
		}
	}
}

// lookupNumber reports the node's numeric value, or false when the node is
// absent or its text is not a finite number.
func lookupNumber(n *TextNode) (float64, bool) {
	if n == nil {
		return 0, false
	}
	text := strings.TrimSpace(n.Text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// extractNumber applies the extract-or-default policy to a single node.
func extractNumber(n *TextNode, def float64) float64 {
	if v, ok := lookupNumber(n); ok {
		return v
	}
	return def
}

func firstNode(nodes []TextNode) *TextNode {
	if len(nodes) == 0 {
		return nil
	}
	return &nodes[0]
}
