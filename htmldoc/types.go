package htmldoc

// NavigationExclusionMode controls how navigation, headers, and footers are filtered.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone includes all content without filtering.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit skips <nav>, <aside> and the matching ARIA
	// roles. <header> and <footer> are only skipped when they are direct
	// children of <body> or of a single top-level wrapper element.
	NavigationExclusionExplicit

	// NavigationExclusionStandard (default) adds class/id pattern matching
	// such as "navbar", "menu", "footer" or "sidebar".
	NavigationExclusionStandard

	// NavigationExclusionAggressive also drops containers whose text is
	// mostly links.
	NavigationExclusionAggressive
)

// Options controls paragraph extraction.
type Options struct {
	Navigation NavigationExclusionMode
}

// DefaultOptions returns the options used by Open and OpenReader.
func DefaultOptions() Options {
	return Options{Navigation: NavigationExclusionStandard}
}
