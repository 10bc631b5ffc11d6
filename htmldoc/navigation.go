package htmldoc

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// boilerplatePattern matches class and id values that mark site chrome
// rather than content.
var boilerplatePattern = regexp.MustCompile(
	`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumb|breadcrumbs|` +
		`site-header|page-header|masthead|banner|` +
		`footer|site-footer|page-footer|colophon|` +
		`sidebar|widget-area|widget|aside)([^a-z]|$)`)

// exclusionChecker decides which elements are navigation or boilerplate.
type exclusionChecker struct {
	mode    NavigationExclusionMode
	body    *html.Node
	wrapper *html.Node // single top-level div/main, if any
}

func newExclusionChecker(mode NavigationExclusionMode, body *html.Node) *exclusionChecker {
	return &exclusionChecker{
		mode:    mode,
		body:    body,
		wrapper: detectTopLevelWrapper(body),
	}
}

// detectTopLevelWrapper returns the only structural child of body, as in
// <body><div id="wrapper">...</div></body>, or nil.
func detectTopLevelWrapper(body *html.Node) *html.Node {
	var found *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "main":
			if found != nil {
				return nil
			}
			found = c
		case "script", "style", "noscript", "template":
		default:
			return nil
		}
	}
	return found
}

// shouldExclude reports whether n and its subtree should be dropped.
func (ec *exclusionChecker) shouldExclude(n *html.Node) bool {
	if n.Type != html.ElementNode || ec.mode == NavigationExclusionNone {
		return false
	}

	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		if ec.isTopLevel(n) {
			return true
		}
	}
	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		if ec.isTopLevel(n) {
			return true
		}
	}

	if ec.mode >= NavigationExclusionStandard {
		if boilerplatePattern.MatchString(getAttr(n, "class")) || boilerplatePattern.MatchString(getAttr(n, "id")) {
			return true
		}
	}

	if ec.mode >= NavigationExclusionAggressive {
		switch n.Data {
		case "div", "section", "ul", "ol":
			return linkDensity(n) > 0.6 && countLinks(n) >= 4
		}
	}

	return false
}

// isTopLevel reports whether n is a direct child of body or of the
// top-level wrapper.
func (ec *exclusionChecker) isTopLevel(n *html.Node) bool {
	return n.Parent != nil && (n.Parent == ec.body || (ec.wrapper != nil && n.Parent == ec.wrapper))
}

// linkDensity returns the share of n's text that sits inside <a> elements.
func linkDensity(n *html.Node) float64 {
	total := textLength(n)
	if total == 0 {
		return 0
	}
	return float64(linkTextLength(n)) / float64(total)
}

func textLength(n *html.Node) int {
	if n.Type == html.TextNode {
		return len(strings.TrimSpace(n.Data))
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLength(c)
	}
	return total
}

func linkTextLength(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == "a" {
		return textLength(n)
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += linkTextLength(c)
	}
	return total
}

func countLinks(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == "a" {
		count = 1
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countLinks(c)
	}
	return count
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
