package view

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productpage/internal/model"
)

func ptr(f float64) *float64 { return &f }

func readyView() *model.ProductView {
	return &model.ProductView{
		ID:            "13060247469",
		Name:          "Casque <Pro>",
		Image:         "https://img.example/casque.jpg",
		Category:      "Audio",
		CategoryLabel: "audio",
		Brand:         "Sony",
		Rating:        4.46,
		ReviewsCount:  12,
		ShowRating:    true,
		FinalPrice:    ptr(19.99),
		FinalText:     "19,99\u00a0€",
		StrikePrice:   ptr(29.99),
		StrikeText:    "29,99\u00a0€",
		Description: model.Description{
			Kind:     model.DescriptionRichText,
			RichText: "<p>Hello <strong>world</strong></p>",
		},
		Reviews: []model.ReviewView{
			{Note: 4, Author: "Marie", Title: "Top", Text: "Très bon son"},
		},
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func render(t *testing.T, page Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Render(&buf, page))
	return buf.String()
}

func TestRender_States(t *testing.T) {
	tests := []struct {
		name        string
		page        Page
		contains    []string
		notContains []string
	}{
		{
			name:        "Loading",
			page:        Loading(),
			contains:    []string{`class="loading-box"`, "Chargement du produit…"},
			notContains: []string{`class="error-card"`, `class="product-card"`},
		},
		{
			name:        "Error",
			page:        Failed(),
			contains:    []string{`class="error-card"`, "Produit introuvable", "Vérifie l’identifiant produit ou réessaie plus tard."},
			notContains: []string{`class="product-card"`, `class="loading-box"`},
		},
		{
			name:        "Ready without product falls back to error",
			page:        Page{State: StateReady},
			contains:    []string{"Produit introuvable"},
			notContains: []string{`class="product-card"`},
		},
		{
			name: "Ready",
			page: Ready(readyView()),
			contains: []string{
				`class="product-card"`,
				"Casque &lt;Pro&gt;",
				`href="/categorie"`,
				">audio</a>",
				"4.5 / 5 · 12 avis",
				"★★★★☆",
				"Prix conseillé",
				"29,99\u00a0€",
				"19,99\u00a0€",
				`class="buy-btn"`,
				"Fabricant",
				"Sony",
				"Présentation",
				"<p>Hello <strong>world</strong></p>",
				"Marie",
				"Très bon son",
			},
			notContains: []string{"Produit introuvable", "Prix indisponible", `class="buy-btn disabled"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, tt.page)

			assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
			assert.Contains(t, html, "</html>")
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestRender_ReadyVariants(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(v *model.ProductView)
		contains    []string
		notContains []string
	}{
		{
			name: "No price",
			mutate: func(v *model.ProductView) {
				v.FinalPrice, v.FinalText, v.StrikePrice, v.StrikeText = nil, "", nil, ""
			},
			contains:    []string{"Prix indisponible", `class="buy-btn disabled"`},
			notContains: []string{"Prix conseillé"},
		},
		{
			name: "No strike-through",
			mutate: func(v *model.ProductView) {
				v.StrikePrice, v.StrikeText = nil, ""
			},
			contains:    []string{"19,99\u00a0€"},
			notContains: []string{"Prix conseillé"},
		},
		{
			name: "No rating and no reviews",
			mutate: func(v *model.ProductView) {
				v.ShowRating, v.Reviews = false, nil
			},
			contains:    []string{"Pas encore d’avis"},
			notContains: []string{" avis</span>", `class="review-item"`},
		},
		{
			name: "Spec rows",
			mutate: func(v *model.ProductView) {
				v.Description = model.Description{
					Kind: model.DescriptionSpecs,
					Sections: []model.SpecGroup{{
						Section: "Général",
						Rows:    []model.SpecRow{{Label: "Couleur", Value: "Noir", Section: "Général"}},
					}},
					Unsectioned: []model.SpecRow{{Label: "Poids", Value: "250 g"}},
				}
			},
			contains:    []string{"Général", "Couleur", "Noir", "Poids", "250 g"},
			notContains: []string{"Présentation"},
		},
		{
			name: "Label value pairs",
			mutate: func(v *model.ProductView) {
				v.Description = model.Description{
					Kind:  model.DescriptionPairs,
					Pairs: []model.LabelValue{{Label: "Marque", Value: "Sony"}},
				}
			},
			contains: []string{"Marque"},
		},
		{
			name: "Plain text is escaped",
			mutate: func(v *model.ProductView) {
				v.Description = model.Description{Kind: model.DescriptionText, Text: "a <b> c"}
			},
			contains: []string{">Description</span>", "a &lt;b&gt; c"},
		},
		{
			name: "Unsafe image URL is neutralized",
			mutate: func(v *model.ProductView) {
				v.Image = "javascript:alert(1)"
			},
			notContains: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := readyView()
			tt.mutate(v)

			html := render(t, Ready(v))

			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestRender_Streaming(t *testing.T) {
	r := newRenderer(t)
	var head, result bytes.Buffer

	require.NoError(t, r.RenderLoading(&head, Loading()))
	require.NoError(t, r.RenderResult(&result, Failed()))

	assert.Contains(t, head.String(), "Chargement du produit…")
	assert.NotContains(t, head.String(), "</html>")
	assert.Contains(t, result.String(), ".loading-box{display:none}")
	assert.Contains(t, result.String(), "Produit introuvable")
	assert.NotContains(t, result.String(), "product-card")
	assert.Contains(t, result.String(), "</html>")
}

func TestMarkdown(t *testing.T) {
	md, err := newRenderer(t).Markdown(Ready(readyView()))

	require.NoError(t, err)
	assert.Contains(t, md, "**world**")
	assert.Contains(t, md, "Sony")
	assert.NotContains(t, md, "<div")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★★☆", stars(4.4))
	assert.Equal(t, "★★★★★", stars(4.5))
	assert.Equal(t, "★★★★★", stars(7))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
	assert.Equal(t, "☆☆☆☆☆", stars(math.NaN()))
	assert.Equal(t, "★★★★★", stars(math.Inf(1)))
	assert.Equal(t, "☆☆☆☆☆", stars(math.Inf(-1)))
}

func TestRender_NonFiniteScores(t *testing.T) {
	v := readyView()
	v.Rating = math.NaN()
	v.Reviews = []model.ReviewView{{Note: math.NaN(), Author: "Client"}}

	html := render(t, Ready(v))

	assert.Contains(t, html, "Client")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(html), "</html>"))
}
