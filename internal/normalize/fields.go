// Package normalize derives display values from a loosely-shaped product
// record. Every function is total: missing or malformed fields degrade to a
// fallback value instead of failing.
package normalize

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"

	"productpage/internal/model"
)

const (
	defaultName          = "Produit"
	defaultCategoryLabel = "produit"
	defaultReviewAuthor  = "Client"
)

var categorySeparators = strings.NewReplacer("-", " ", "_", " ")

// Name returns the first non-empty of name, title and headline.
func Name(p *model.Product) string {
	return firstNonEmpty(p.Name, p.Title, p.Headline, defaultName)
}

// Image returns the main image URL, or "" when there is none.
func Image(p *model.Product) string {
	if p.Image != "" {
		return p.Image.String()
	}
	if len(p.ImagesURLs) > 0 {
		return p.ImagesURLs[0]
	}
	return ""
}

// Rating returns the average score out of five, 0 when unknown or not a
// finite number.
func Rating(p *model.Product) float64 {
	candidates := []model.Loose{p.Rating}
	if p.GlobalRating != nil {
		candidates = append(candidates, p.GlobalRating.Score)
	}
	for _, c := range candidates {
		if c.IsNull() {
			continue
		}
		if f, ok := finite(c); ok {
			return f
		}
	}
	return 0
}

// ReviewsCount returns the announced number of reviews, falling back to the
// number of embedded reviews.
func ReviewsCount(p *model.Product) int {
	candidates := []model.Loose{p.ReviewsCount, p.ReviewCount}
	if p.GlobalRating != nil {
		candidates = append(candidates, p.GlobalRating.NbReviews)
	}
	for _, c := range candidates {
		if c.IsNull() {
			continue
		}
		if n, err := cast.ToIntE(c.Value()); err == nil {
			return n
		}
	}
	return len(p.Reviews)
}

// Brand returns the manufacturer caption, if any.
func Brand(p *model.Product) string {
	if p.Contributor == nil {
		return ""
	}
	return p.Contributor.Caption.String()
}

// Category returns a human label for the product category: the last
// underscore-delimited segment of prdCategory, else the first category,
// with separators turned into spaces and the first letter capitalized.
func Category(p *model.Product) string {
	raw := ""
	if p.PrdCategory != "" {
		segments := strings.Split(p.PrdCategory.String(), "_")
		raw = segments[len(segments)-1]
	}
	if raw == "" && len(p.Categories) > 0 {
		raw = p.Categories[0]
	}

	cleaned := strings.TrimSpace(categorySeparators.Replace(raw))
	return capitalize(cleaned)
}

// CategoryLabel is the lower-cased category used in the breadcrumb.
func CategoryLabel(p *model.Product) string {
	if c := Category(p); c != "" {
		return strings.ToLower(c)
	}
	return defaultCategoryLabel
}

// SpecRows flattens the specification sections. Label and value are
// trimmed; rows where both are empty are skipped.
func SpecRows(p *model.Product) []model.SpecRow {
	if p.Specifications == nil || p.Specifications.Sections == nil {
		return nil
	}

	var rows []model.SpecRow
	for _, section := range p.Specifications.Sections.Entry {
		for _, entry := range section.Content {
			label := strings.TrimSpace(entry.Header.String())
			value := strings.TrimSpace(entry.Body.String())
			if label == "" && value == "" {
				continue
			}
			rows = append(rows, model.SpecRow{Label: label, Value: value, Section: section.Title.String()})
		}
	}
	return rows
}

// GroupSpecs splits rows into named sections, in order of first appearance,
// and the rows that belong to no section.
func GroupSpecs(rows []model.SpecRow) ([]model.SpecGroup, []model.SpecRow) {
	var (
		groups      []model.SpecGroup
		unsectioned []model.SpecRow
		index       = make(map[string]int)
	)

	for _, row := range rows {
		if row.Section == "" {
			unsectioned = append(unsectioned, row)
			continue
		}
		i, ok := index[row.Section]
		if !ok {
			i = len(groups)
			index[row.Section] = i
			groups = append(groups, model.SpecGroup{Section: row.Section})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	return groups, unsectioned
}

func firstNonEmpty[S ~string](values ...S) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// finite reads v as a number. NaN and infinities count as absent.
func finite(v model.Loose) (float64, bool) {
	f, err := cast.ToFloat64E(v.Value())
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
