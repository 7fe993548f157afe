package normalize

import (
	"productpage/internal/model"
	"productpage/internal/richtext"
)

// Build assembles the display projection of a product.
func Build(p *model.Product) *model.ProductView {
	view := &model.ProductView{
		ID:            p.ID.String(),
		Name:          Name(p),
		Image:         Image(p),
		Category:      Category(p),
		CategoryLabel: CategoryLabel(p),
		Brand:         Brand(p),
		Rating:        Rating(p),
		ReviewsCount:  ReviewsCount(p),
		Description:   Describe(p),
		Reviews:       Reviews(p),
	}
	view.ShowRating = view.Rating > 0 && view.ReviewsCount > 0

	if final, ok := FinalPrice(p); ok {
		view.FinalPrice = &final
		view.FinalText = FormatEUR(final)
		if strike, ok := StrikePrice(p, final); ok {
			view.StrikePrice = &strike
			view.StrikeText = FormatEUR(strike)
		}
	}

	return view
}

// Describe picks the description strategy in priority order: structured
// specification rows, label/value pairs from the description, sanitized
// editorial text, plain text of the description or editorial, nothing.
func Describe(p *model.Product) model.Description {
	if rows := SpecRows(p); len(rows) > 0 {
		sections, unsectioned := GroupSpecs(rows)
		return model.Description{
			Kind:        model.DescriptionSpecs,
			Sections:    sections,
			Unsectioned: unsectioned,
		}
	}

	if pairs := richtext.LabelValues(p.Description.String()); len(pairs) > 0 {
		return model.Description{Kind: model.DescriptionPairs, Pairs: pairs}
	}

	if rich := richtext.Sanitize(p.Edito.String()); rich != "" {
		return model.Description{Kind: model.DescriptionRichText, RichText: rich}
	}

	if text := richtext.StripTags(firstNonEmpty(p.Description, p.Edito)); text != "" {
		return model.Description{Kind: model.DescriptionText, Text: text}
	}

	return model.Description{Kind: model.DescriptionNone}
}

// Reviews converts embedded reviews for display.
func Reviews(p *model.Product) []model.ReviewView {
	reviews := make([]model.ReviewView, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		author := defaultReviewAuthor
		if r.Author != nil {
			author = firstNonEmpty(r.Author.FirstName, r.Author.Login, defaultReviewAuthor)
		}
		note, _ := finite(r.Note)
		reviews = append(reviews, model.ReviewView{
			Note:   note,
			Author: author,
			Title:  r.Title.String(),
			Text:   richtext.StripTags(r.Description.String()),
		})
	}
	return reviews
}
