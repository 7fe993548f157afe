package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"productpage/internal/model"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		expected string
	}{
		{name: "Name first", product: model.Product{Name: "A", Title: "B", Headline: "C"}, expected: "A"},
		{name: "Title when no name", product: model.Product{Title: "B", Headline: "C"}, expected: "B"},
		{name: "Headline only", product: model.Product{Headline: "Widget"}, expected: "Widget"},
		{name: "Placeholder", product: model.Product{}, expected: "Produit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Name(&tt.product))
		})
	}
}

func TestImage(t *testing.T) {
	assert.Equal(t, "a.jpg", Image(&model.Product{Image: "a.jpg", ImagesURLs: []string{"b.jpg"}}))
	assert.Equal(t, "b.jpg", Image(&model.Product{ImagesURLs: []string{"b.jpg", "c.jpg"}}))
	assert.Equal(t, "", Image(&model.Product{ImagesURLs: []string{}}))
	assert.Equal(t, "", Image(&model.Product{}))
}

func TestRating(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		expected float64
	}{
		{name: "Rating field", product: model.Product{Rating: model.LooseOf(4.2)}, expected: 4.2},
		{
			name: "Zero rating is kept",
			product: model.Product{
				Rating:       model.LooseOf(0),
				GlobalRating: &model.GlobalRating{Score: model.LooseOf(4.8)},
			},
			expected: 0,
		},
		{
			name:     "Global score",
			product:  model.Product{GlobalRating: &model.GlobalRating{Score: model.LooseOf("3.5")}},
			expected: 3.5,
		},
		{name: "Unknown", product: model.Product{}, expected: 0},
		{
			name: "NaN rating is skipped",
			product: model.Product{
				Rating:       model.LooseOf("NaN"),
				GlobalRating: &model.GlobalRating{Score: model.LooseOf(4.1)},
			},
			expected: 4.1,
		},
		{name: "Infinite rating", product: model.Product{Rating: model.LooseOf("+Inf")}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Rating(&tt.product), 1e-9)
		})
	}
}

func TestReviewsCount(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		expected int
	}{
		{
			name:     "reviewsCount first",
			product:  model.Product{ReviewsCount: model.LooseOf(7), ReviewCount: model.LooseOf(3)},
			expected: 7,
		},
		{name: "reviewCount", product: model.Product{ReviewCount: model.LooseOf(3)}, expected: 3},
		{
			name:     "Global nbReviews",
			product:  model.Product{GlobalRating: &model.GlobalRating{NbReviews: model.LooseOf(12)}},
			expected: 12,
		},
		{
			name:     "Counts embedded reviews",
			product:  model.Product{Reviews: []model.Review{{}, {}}},
			expected: 2,
		},
		{name: "None", product: model.Product{}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReviewsCount(&tt.product))
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name          string
		product       model.Product
		expected      string
		expectedLabel string
	}{
		{
			name:          "Last segment of category path",
			product:       model.Product{PrdCategory: "cat_electronics_audio"},
			expected:      "Audio",
			expectedLabel: "audio",
		},
		{
			name:          "Hyphens become spaces",
			product:       model.Product{PrdCategory: "cat_home-cinema"},
			expected:      "Home cinema",
			expectedLabel: "home cinema",
		},
		{
			name:          "Category list when no path",
			product:       model.Product{Categories: []string{"jeux-video", "consoles"}},
			expected:      "Jeux video",
			expectedLabel: "jeux video",
		},
		{
			name:          "Trailing underscore falls back to list",
			product:       model.Product{PrdCategory: "cat_", Categories: []string{"livres"}},
			expected:      "Livres",
			expectedLabel: "livres",
		},
		{
			name:          "Accented first letter",
			product:       model.Product{PrdCategory: "électroménager"},
			expected:      "Électroménager",
			expectedLabel: "électroménager",
		},
		{
			name:          "No category",
			product:       model.Product{},
			expected:      "",
			expectedLabel: "produit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Category(&tt.product))
			assert.Equal(t, tt.expectedLabel, CategoryLabel(&tt.product))
		})
	}
}

func TestSpecRows(t *testing.T) {
	p := &model.Product{
		Specifications: &model.Specifications{
			Sections: &model.SpecSections{
				Entry: []model.SpecSection{
					{
						Title: "Général",
						Content: []model.SpecEntry{
							{Header: " Marque ", Body: " Acme "},
							{Header: "  ", Body: ""},
							{Header: "", Body: "Sans titre"},
						},
					},
					{
						Content: []model.SpecEntry{
							{Header: "Poids", Body: "1 kg"},
						},
					},
				},
			},
		},
	}

	expected := []model.SpecRow{
		{Label: "Marque", Value: "Acme", Section: "Général"},
		{Label: "", Value: "Sans titre", Section: "Général"},
		{Label: "Poids", Value: "1 kg"},
	}

	if diff := cmp.Diff(expected, SpecRows(p)); diff != "" {
		t.Errorf("SpecRows() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, SpecRows(&model.Product{}))
	assert.Nil(t, SpecRows(&model.Product{Specifications: &model.Specifications{}}))
}

func TestGroupSpecs(t *testing.T) {
	rows := []model.SpecRow{
		{Label: "a", Value: "1", Section: "S1"},
		{Label: "b", Value: "2"},
		{Label: "c", Value: "3", Section: "S2"},
		{Label: "d", Value: "4", Section: "S1"},
	}

	groups, unsectioned := GroupSpecs(rows)

	expectedGroups := []model.SpecGroup{
		{Section: "S1", Rows: []model.SpecRow{rows[0], rows[3]}},
		{Section: "S2", Rows: []model.SpecRow{rows[2]}},
	}
	if diff := cmp.Diff(expectedGroups, groups); diff != "" {
		t.Errorf("GroupSpecs() groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []model.SpecRow{rows[1]}, unsectioned)
}

func TestBrand(t *testing.T) {
	assert.Equal(t, "Acme", Brand(&model.Product{Contributor: &model.Contributor{Caption: "Acme"}}))
	assert.Equal(t, "", Brand(&model.Product{}))
}
