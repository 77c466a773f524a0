// Package extract pulls readable article text out of fetched HTML pages.
package extract

import (
	"bytes"
	"regexp"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0[^1-9]`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// Text extracts the page title and the visible article text from raw HTML.
// Script, style, navigation and hidden elements are skipped. When no
// content blocks are found the whole visible text is used as fallback.
func Text(htmlBytes []byte) (title, text string) {
	doc, err := html.Parse(bytes.NewReader(htmlBytes))
	if err != nil {
		return "", ""
	}

	title = findTitle(doc)

	var blocks []string
	collectBlocks(doc, &blocks)
	if len(blocks) == 0 {
		if all := collectText(doc); all != "" {
			blocks = append(blocks, all)
		}
	}
	return title, strings.Join(blocks, "\n")
}

// findTitle extracts the <title> text.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// collectBlocks walks the DOM tree and collects heading, paragraph,
// list and table text in document order.
func collectBlocks(n *html.Node, blocks *[]string) {
	if n.Type == html.ElementNode {
		// Skip boilerplate.
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Header, atom.Aside, atom.Form:
			return
		}
		if hasHiddenStyle(n) {
			return
		}

		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
			atom.P, atom.Ul, atom.Ol, atom.Table, atom.Blockquote:
			if text := collectText(n); text != "" {
				*blocks = append(*blocks, text)
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(c, blocks)
	}
}

// collectText extracts all visible text from a node subtree.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

var (
	mdConverter *converter.Converter
	mdOnce      sync.Once
)

// Markdown converts HTML to structured markdown. If conversion fails or
// produces empty output, returns the fallback plain text.
func Markdown(htmlStr, sourceURL, fallback string) string {
	if htmlStr == "" {
		return fallback
	}
	mdOnce.Do(func() {
		mdConverter = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	})
	result, err := mdConverter.ConvertString(htmlStr, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}

var snippetPolicy = bluemonday.StrictPolicy()

// Snippet strips any markup left in text and bounds it to n runes.
// Truncation happens on a rune boundary so multi-byte scripts survive.
func Snippet(text string, n int) string {
	clean := strings.TrimSpace(snippetPolicy.Sanitize(text))
	clean = strings.Join(strings.Fields(clean), " ")
	if n <= 0 {
		return clean
	}
	runes := []rune(clean)
	if len(runes) <= n {
		return clean
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
