package poikkeusinfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

const rootElementName = "DISRUPTIONS"

// Disruptions is the decoded DISRUPTIONS root element. Repeating children are
// always slices so callers never branch on single vs. many.
type Disruptions struct {
	Disruptions []Disruption `xml:"DISRUPTION"`
}

type Disruption struct {
	ID     string `xml:"id,attr"`
	Type   string `xml:"type,attr"`
	Source string `xml:"source,attr"`

	Info     *Info            `xml:"INFO"`
	Targets  *Targets         `xml:"TARGETS"`
	Validity *ValidityElement `xml:"VALIDITY"`
}

type Info struct {
	Texts []Text `xml:"TEXT"`
}

type Text struct {
	Lang string `xml:"lang,attr"`
	Body string `xml:",chardata"`
}

type Targets struct {
	Lines []Line `xml:"LINE"`
}

type Line struct {
	ID        string `xml:"id,attr"`
	Direction string `xml:"direction,attr"`
	LineType  string `xml:"linetype,attr"`
	Number    string `xml:",chardata"`
}

type ValidityElement struct {
	Status string `xml:"status,attr"`
	From   string `xml:"from,attr"`
	To     string `xml:"to,attr"`
}

// ParseXMLFile decodes a disruption document. It returns a nil *Disruptions
// when the document is well-formed but its root is not DISRUPTIONS.
func ParseXMLFile(reader io.Reader) (*Disruptions, error) {
	var document *Disruptions
	seenRoot := false

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &MalformedDocumentError{Err: err}
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			if seenRoot {
				return nil, &MalformedDocumentError{Err: errors.New("junk after document element")}
			}
			seenRoot = true

			if ty.Name.Local == rootElementName {
				document = &Disruptions{}
				if err = d.DecodeElement(document, &ty); err != nil {
					return nil, &MalformedDocumentError{Err: err}
				}
			} else if err = d.Skip(); err != nil {
				return nil, &MalformedDocumentError{Err: err}
			}
		case xml.CharData:
			if len(bytes.TrimSpace(ty)) > 0 {
				return nil, &MalformedDocumentError{Err: errors.New("text outside of document element")}
			}
		}
	}

	if !seenRoot {
		return nil, &MalformedDocumentError{Err: errors.New("no document element")}
	}

	return document, nil
}
