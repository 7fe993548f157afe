// Package richtext cleans the HTML fragments found in product payloads.
//
// Three operations are provided, matching the three ways a product
// description can be displayed:
//   - Sanitize keeps a small set of formatting elements and unwraps the rest,
//   - LabelValues pulls label/value pairs out of "li.sub" specification lists,
//   - StripTags reduces markup to a single line of plain text.
package richtext

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"productpage/internal/model"
)

// allowedElements survive sanitization. Everything else is unwrapped.
var allowedElements = map[atom.Atom]bool{
	atom.H3:     true,
	atom.P:      true,
	atom.Ul:     true,
	atom.Li:     true,
	atom.B:      true,
	atom.Strong: true,
	atom.Em:     true,
}

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	trailingColonRe = regexp.MustCompile(`\s*:\s*$`)
)

// Sanitize returns markup that only contains allowed elements. Disallowed
// elements are replaced by their children, attributes and comments are
// dropped. Unparseable input yields an empty string.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	unwrapDisallowed(body.Get(0))

	out, err := body.Html()
	if err != nil {
		return ""
	}
	return out
}

// unwrapDisallowed rewrites the subtree below parent in place. Children are
// handled before their parent so grandchildren moved up are already clean.
func unwrapDisallowed(parent *html.Node) {
	for child := parent.FirstChild; child != nil; {
		next := child.NextSibling

		switch child.Type {
		case html.ElementNode:
			unwrapDisallowed(child)
			if allowedElements[child.DataAtom] {
				child.Attr = nil
				break
			}
			for grandchild := child.FirstChild; grandchild != nil; {
				following := grandchild.NextSibling
				child.RemoveChild(grandchild)
				parent.InsertBefore(grandchild, child)
				grandchild = following
			}
			parent.RemoveChild(child)
		case html.CommentNode, html.DoctypeNode:
			parent.RemoveChild(child)
		}

		child = next
	}
}

// LabelValues extracts label/value pairs from list items marked with the
// "sub" class. Trailing colons are removed from labels and items where both
// parts are empty are skipped.
func LabelValues(raw string) []model.LabelValue {
	if raw == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	var pairs []model.LabelValue
	doc.Find("li.sub").Each(func(_ int, item *goquery.Selection) {
		label := trailingColonRe.ReplaceAllString(item.Find(".label").First().Text(), "")
		label = strings.TrimSpace(label)
		value := strings.TrimSpace(item.Find(".value").First().Text())
		if label == "" && value == "" {
			return
		}
		pairs = append(pairs, model.LabelValue{Label: label, Value: value})
	})

	return pairs
}

// StripTags removes every tag, decodes entities and collapses whitespace
// (non-breaking spaces included) into single spaces.
func StripTags(raw string) string {
	if raw == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(raw, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// ToMarkdown converts a rendered HTML document or fragment to Markdown.
func ToMarkdown(raw string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
