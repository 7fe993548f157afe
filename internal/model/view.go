package model

// DescriptionKind identifies which description strategy a page uses.
type DescriptionKind string

// Description strategies, in priority order.
const (
	DescriptionSpecs    DescriptionKind = "specs"
	DescriptionPairs    DescriptionKind = "pairs"
	DescriptionRichText DescriptionKind = "richtext"
	DescriptionText     DescriptionKind = "text"
	DescriptionNone     DescriptionKind = "none"
)

// ProductView is the display-ready projection of a Product.
type ProductView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	CategoryLabel string   `json:"categoryLabel"`
	Brand         string   `json:"brand,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewsCount  int      `json:"reviewsCount"`
	ShowRating    bool     `json:"showRating"`
	FinalPrice    *float64 `json:"finalPrice,omitempty"`
	StrikePrice   *float64 `json:"strikePrice,omitempty"`
	FinalText     string   `json:"finalPriceText,omitempty"`
	StrikeText    string   `json:"strikePriceText,omitempty"`

	Description Description  `json:"description"`
	Reviews     []ReviewView `json:"reviews"`
}

// HasPrice reports whether a final price could be derived.
func (v *ProductView) HasPrice() bool {
	return v.FinalPrice != nil
}

// Description is the chosen description block. Only the fields of
// the selected Kind are populated.
type Description struct {
	Kind        DescriptionKind `json:"kind"`
	Sections    []SpecGroup     `json:"sections,omitempty"`
	Unsectioned []SpecRow       `json:"unsectioned,omitempty"`
	Pairs       []LabelValue    `json:"pairs,omitempty"`
	RichText    string          `json:"richText,omitempty"`
	Text        string          `json:"text,omitempty"`
}

// SpecRow is one flattened specification line.
type SpecRow struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Section string `json:"section,omitempty"`
}

// SpecGroup is the rows of one named section.
type SpecGroup struct {
	Section string    `json:"section"`
	Rows    []SpecRow `json:"rows"`
}

// LabelValue is a label/value pair extracted from description markup.
type LabelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReviewView is a review ready for display.
type ReviewView struct {
	Note   float64 `json:"note"`
	Author string  `json:"author"`
	Title  string  `json:"title,omitempty"`
	Text   string  `json:"text,omitempty"`
}
