package model

import "time"

// Metadata contains document-level information
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time

	// Source describes where the paragraphs came from
	Source string
	Format string

	// Custom metadata
	Custom map[string]string
}

// NewMetadata creates metadata for the given source path and format name
func NewMetadata(source, format string) Metadata {
	return Metadata{
		Source: source,
		Format: format,
		Custom: make(map[string]string),
	}
}
