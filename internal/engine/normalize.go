package engine

import (
	"strings"

	"golang.org/x/net/html"
)

// Normalize prepares raw input for matching: markup is stripped down to
// visible text and whitespace runs collapse to single spaces. Attack
// prompts arriving wrapped in HTML (scraped pages, rich-text fields)
// would otherwise dodge phrase-level patterns split across tags.
func Normalize(text string) string {
	if strings.ContainsRune(text, '<') && strings.ContainsRune(text, '>') {
		if stripped, ok := stripMarkup(text); ok {
			text = stripped
		}
	}

	return strings.Join(strings.Fields(text), " ")
}

// stripMarkup extracts visible text nodes, skipping script/style content
func stripMarkup(raw string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", false
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), true
}
