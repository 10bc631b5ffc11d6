package odt

import "encoding/xml"

// stylesXML represents the list styles of styles.xml.
type stylesXML struct {
	XMLName    xml.Name         `xml:"document-styles"`
	Styles     *officeStylesXML `xml:"styles"`
	AutoStyles *officeStylesXML `xml:"automatic-styles"`
}

// contentStylesXML represents automatic styles in content.xml
type contentStylesXML struct {
	XMLName    xml.Name       `xml:"automatic-styles"`
	ListStyles []listStyleXML `xml:"list-style"`
}

// officeStylesXML represents an office:styles or office:automatic-styles
// element.
type officeStylesXML struct {
	ListStyles []listStyleXML `xml:"list-style"`
}

// listStyleXML represents a list style definition (<text:list-style>).
type listStyleXML struct {
	XMLName      xml.Name             `xml:"list-style"`
	Name         string               `xml:"name,attr"`
	DisplayName  string               `xml:"display-name,attr"`
	BulletLevels []listLevelBulletXML `xml:"list-level-style-bullet"`
	NumberLevels []listLevelNumberXML `xml:"list-level-style-number"`
}

// listLevelBulletXML represents a bullet list level (<text:list-level-style-bullet>).
type listLevelBulletXML struct {
	XMLName    xml.Name `xml:"list-level-style-bullet"`
	Level      string   `xml:"level,attr"`
	BulletChar string   `xml:"bullet-char,attr"`
}

// listLevelNumberXML represents a numbered list level (<text:list-level-style-number>).
type listLevelNumberXML struct {
	XMLName    xml.Name `xml:"list-level-style-number"`
	Level      string   `xml:"level,attr"`
	NumFormat  string   `xml:"num-format,attr"` // "1", "a", "A", "i", "I", "一, 二, 三, ..."
	NumPrefix  string   `xml:"num-prefix,attr"`
	NumSuffix  string   `xml:"num-suffix,attr"`
	StartValue string   `xml:"start-value,attr"`
}
