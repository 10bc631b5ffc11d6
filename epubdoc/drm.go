package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"path"
	"strings"
)

// ErrDRMProtected is returned for books whose content documents are
// encrypted.
var ErrDRMProtected = errors.New("epub: DRM-protected content cannot be processed")

type encryptionXML struct {
	XMLName xml.Name `xml:"encryption"`
	Data    []struct {
		Method struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
		Reference struct {
			URI string `xml:"URI,attr"`
		} `xml:"CipherData>CipherReference"`
	} `xml:"EncryptedData"`
}

// checkForDRM rejects Adobe ADEPT books and books whose encryption.xml
// covers content documents. Font obfuscation is allowed.
func checkForDRM(zr *zip.Reader) error {
	if _, err := readZipFile(zr, "META-INF/rights.xml"); err == nil {
		return ErrDRMProtected
	}

	data, err := readZipFile(zr, "META-INF/encryption.xml")
	if errors.Is(err, ErrMissingContent) {
		return nil
	}
	if err != nil {
		return ErrDRMProtected
	}

	var enc encryptionXML
	if err := xml.Unmarshal(data, &enc); err != nil {
		return ErrDRMProtected
	}
	for _, d := range enc.Data {
		if isFontObfuscation(d.Method.Algorithm) {
			continue
		}
		if isContentFile(d.Reference.URI) {
			return ErrDRMProtected
		}
	}
	return nil
}

func isFontObfuscation(algorithm string) bool {
	return strings.Contains(algorithm, "obfuscation") &&
		(strings.Contains(algorithm, "adobe.com") || strings.Contains(algorithm, "idpf.org"))
}

func isContentFile(uri string) bool {
	switch strings.ToLower(path.Ext(uri)) {
	case ".xhtml", ".html", ".htm", ".xml", ".css":
		return true
	}
	return false
}
