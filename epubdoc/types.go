// Package epubdoc reads the chapters of EPUB e-books as paragraphs.
//
// Chapters are taken in spine order and each XHTML document is read with
// the htmldoc package, so navigation exclusion and block splitting behave
// as they do for plain HTML exams.
package epubdoc

import (
	"time"

	"github.com/tsawler/quizbank/htmldoc"
)

// Package is the parsed OPF package document.
type Package struct {
	Version  string // "2.0" or "3.0"
	Metadata Metadata
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
}

// Metadata holds the Dublin Core fields of the package.
type Metadata struct {
	Title       string
	Creator     []string
	Language    string
	Identifier  string
	Publisher   string
	Description string
	Subjects    []string
	Modified    time.Time
}

// ManifestItem is one file listed in the manifest.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// SpineItem is one entry of the reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// Chapter is the text of one spine document.
type Chapter struct {
	ID         string
	Href       string
	Linear     bool
	Title      string
	Paragraphs []string
}

// Options controls paragraph extraction.
type Options struct {
	// Navigation is applied to every chapter.
	Navigation htmldoc.NavigationExclusionMode

	// LinearOnly skips spine items marked linear="no", such as pop-up
	// notes or answer sheets kept out of the reading order.
	LinearOnly bool
}

// DefaultOptions returns the options used by Open.
func DefaultOptions() Options {
	return Options{Navigation: htmldoc.NavigationExclusionStandard}
}
