package crawler

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page holds the collapsed text of one source document plus the structured
// hints used for country-name resolution.
type Page struct {
	Text    string
	Title   string
	Heading string
}

// CollapsePage parses markup and joins every visible text node with single
// spaces. Metric patterns are written against this collapsed form, not raw
// markup, so label and value survive arbitrary intervening tags. The page
// title and first h1 heading are captured separately as hints.
func CollapsePage(content string) (Page, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse page markup: %w", err)
	}

	var page Page

	var words []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Title:
				if page.Title == "" {
					page.Title = strings.TrimSpace(nodeText(n))
				}
			case atom.H1:
				if page.Heading == "" {
					page.Heading = strings.TrimSpace(nodeText(n))
				}
			}
		}

		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.Text = strings.Join(words, " ")

	return page, nil
}

// nodeText concatenates the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return sb.String()
}
