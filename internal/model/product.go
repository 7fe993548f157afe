package model

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Product is the product record as served by the catalogue API.
// Most concepts have several alternative fields; none of them is required.
type Product struct {
	ID         Text     `json:"id"`
	Name       Text     `json:"name,omitempty"`
	Title      Text     `json:"title,omitempty"`
	Headline   Text     `json:"headline,omitempty"`
	Image      Text     `json:"image,omitempty"`
	ImagesURLs TextList `json:"imagesUrls,omitempty"`

	Price             Loose   `json:"price"`
	DiscountedPrice   Loose   `json:"discountedPrice"`
	NewBestPrice      Loose   `json:"newBestPrice"`
	CollapseBestPrice Loose   `json:"collapseBestPrice"`
	PriceList         Loose   `json:"priceList"`
	Buybox            *Buybox `json:"buybox,omitempty"`

	Description    Text            `json:"description,omitempty"`
	Edito          Text            `json:"edito,omitempty"`
	Specifications *Specifications `json:"specifications,omitempty"`

	Rating       Loose         `json:"rating"`
	GlobalRating *GlobalRating `json:"globalRating,omitempty"`
	ReviewsCount Loose         `json:"reviewsCount"`
	ReviewCount  Loose         `json:"reviewCount"`

	Contributor *Contributor `json:"contributor,omitempty"`
	PrdCategory Text         `json:"prdCategory,omitempty"`
	Categories  TextList     `json:"categories,omitempty"`
	Reviews     List[Review] `json:"reviews,omitempty"`
}

// Buybox carries the offer currently winning the buy box.
type Buybox struct {
	SalePrice Loose `json:"salePrice"`
}

// Specifications wraps the sectioned technical sheet.
type Specifications struct {
	Sections *SpecSections `json:"sections,omitempty"`
}

// SpecSections is the list of specification sections.
type SpecSections struct {
	Entry List[SpecSection] `json:"entry,omitempty"`
}

// SpecSection is a titled group of specification entries.
type SpecSection struct {
	Title   Text            `json:"title,omitempty"`
	Content List[SpecEntry] `json:"content,omitempty"`
}

// SpecEntry is a single header/body pair of the technical sheet.
type SpecEntry struct {
	Header Text `json:"header,omitempty"`
	Body   Text `json:"body,omitempty"`
}

// GlobalRating is the aggregated rating block.
type GlobalRating struct {
	Score     Loose `json:"score"`
	NbReviews Loose `json:"nbReviews"`
}

// Contributor is the manufacturer or brand.
type Contributor struct {
	Caption Text `json:"caption,omitempty"`
}

// Review is a single customer review.
type Review struct {
	Note        Loose         `json:"note"`
	Title       Text          `json:"title,omitempty"`
	Description Text          `json:"description,omitempty"`
	Author      *ReviewAuthor `json:"author,omitempty"`
	Date        Loose         `json:"date"`
}

// ReviewAuthor identifies the author of a review.
type ReviewAuthor struct {
	Login     Text `json:"login,omitempty"`
	FirstName Text `json:"firstName,omitempty"`
}

// Loose holds a JSON value whose type varies between payloads
// (prices arrive as strings, numbers or null). The raw token is kept
// and interpreted by the caller.
type Loose struct {
	raw json.RawMessage
}

// LooseOf builds a Loose from a Go value. A nil value yields null.
func LooseOf(v any) Loose {
	if v == nil {
		return Loose{}
	}
	raw, err := codec.Marshal(v)
	if err != nil {
		return Loose{}
	}
	return Loose{raw: raw}
}

// UnmarshalJSON stores the raw token.
func (l *Loose) UnmarshalJSON(data []byte) error {
	l.raw = append(l.raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw token back, or null when absent.
func (l Loose) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.raw, nil
}

// IsNull reports whether the value is absent or JSON null.
func (l Loose) IsNull() bool {
	trimmed := bytes.TrimSpace(l.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Value decodes the raw token into a Go value (string, float64, bool,
// []any or map[string]any). It returns nil for null, absent or invalid
// tokens.
func (l Loose) Value() any {
	if l.IsNull() {
		return nil
	}
	var v any
	if err := codec.Unmarshal(l.raw, &v); err != nil {
		return nil
	}
	return v
}
