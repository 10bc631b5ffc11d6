package odt

import "encoding/xml"

// ODF XML namespaces
const (
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// metaXML represents document metadata from meta.xml.
type metaXML struct {
	XMLName xml.Name     `xml:"document-meta"`
	Meta    *metaInfoXML `xml:"meta"`
}

// metaInfoXML represents the office:meta element.
type metaInfoXML struct {
	Title          string   `xml:"title"`
	Description    string   `xml:"description"`
	Subject        string   `xml:"subject"`
	Keywords       []string `xml:"keyword"`
	InitialCreator string   `xml:"initial-creator"`
	Creator        string   `xml:"creator"`
	CreationDate   string   `xml:"creation-date"`
	Date           string   `xml:"date"` // Last modified
	Generator      string   `xml:"generator"`
	Language       string   `xml:"language"`
}

// skippedElements are body subtrees whose text does not belong to the
// surrounding paragraph flow: tables, frames and text boxes, footnotes,
// comments and change-tracking records.
var skippedElements = map[string]bool{
	"table":           true,
	"frame":           true,
	"note":            true,
	"annotation":      true,
	"tracked-changes": true,
	"sequence-decls":  true,
}
