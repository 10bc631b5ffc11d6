package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"path"
	"strings"
	"time"
)

// Package document errors.
var (
	ErrNoOPF      = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF = errors.New("epub: invalid package document")
	ErrEmptySpine = errors.New("epub: no content in spine")
)

type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Title       []string `xml:"title"`
		Creator     []string `xml:"creator"`
		Language    []string `xml:"language"`
		Identifier  []string `xml:"identifier"`
		Publisher   []string `xml:"publisher"`
		Description []string `xml:"description"`
		Subject     []string `xml:"subject"`
		Meta        []struct {
			Property string `xml:"property,attr"`
			Value    string `xml:",chardata"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Items []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	ItemRefs []struct {
		IDRef  string `xml:"idref,attr"`
		Linear string `xml:"linear,attr"`
	} `xml:"spine>itemref"`
}

// parsePackage reads the OPF at opfPath. The returned base directory is the
// one manifest hrefs are relative to.
func parsePackage(zr *zip.Reader, opfPath string) (*Package, string, error) {
	data, err := readZipFile(zr, opfPath)
	if errors.Is(err, ErrMissingContent) {
		return nil, "", ErrNoOPF
	}
	if err != nil {
		return nil, "", err
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", ErrInvalidOPF
	}

	pkg := &Package{
		Version:  opf.Version,
		Manifest: make(map[string]ManifestItem, len(opf.Items)),
	}

	m := opf.Metadata
	pkg.Metadata = Metadata{
		Title:       first(m.Title),
		Creator:     nonEmpty(m.Creator),
		Language:    first(m.Language),
		Identifier:  first(m.Identifier),
		Publisher:   first(m.Publisher),
		Description: first(m.Description),
		Subjects:    nonEmpty(m.Subject),
	}
	for _, meta := range m.Meta {
		if meta.Property != "dcterms:modified" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(meta.Value)); err == nil {
			pkg.Metadata.Modified = t
		}
	}

	for _, item := range opf.Items {
		pkg.Manifest[item.ID] = ManifestItem{ID: item.ID, Href: item.Href, MediaType: item.MediaType}
	}
	for _, ref := range opf.ItemRefs {
		pkg.Spine = append(pkg.Spine, SpineItem{IDRef: ref.IDRef, Linear: ref.Linear != "no"})
	}
	if len(pkg.Spine) == 0 {
		return nil, "", ErrEmptySpine
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}
	return pkg, baseDir, nil
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
