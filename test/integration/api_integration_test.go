package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productpage/internal/app"
	"productpage/internal/config"
	"productpage/internal/model"
)

const casque = `{
	"data": {
		"id": "13060247469",
		"headline": "Casque sans fil",
		"imagesUrls": ["https://img.example/casque.jpg"],
		"newBestPrice": "89,90 €",
		"priceList": 129.9,
		"prdCategory": "cat_electronics_audio",
		"contributor": {"caption": "Sony"},
		"globalRating": {"score": "4.4", "nbReviews": 17},
		"description": "<ul><li class=\"sub\"><span class=\"label\">Couleur :</span><span class=\"value\">Noir</span></li></ul>",
		"reviews": [{"note": 5, "title": "Parfait", "description": "<p>Très&nbsp;bon</p>", "author": {"login": "mdupont"}}]
	}
}`

func newTestConfig(apiURL, backend, redisURL string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Product: config.ProductConfig{APIURL: apiURL, DefaultID: "13060247469", Source: config.SourceHTTP},
		Cache:   config.CacheConfig{Backend: backend, TTLSeconds: 300, RedisURL: redisURL},
		Logger:  config.LoggerConfig{Level: "info", Format: "json"},
	}
}

func setupTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Close()
	})
	return a.Handler
}

func get(server http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestProductPage_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	upstream := NewUpstream(t, map[string]string{
		"13060247469": casque,
		"empty":       `null`,
	})
	server := setupTestServer(t, newTestConfig(upstream.URL, config.CacheMemory, ""))

	t.Run("GET / renders the default product", func(t *testing.T) {
		w := get(server, "/")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Casque sans fil")
		assert.Contains(t, body, "89,90\u00a0€")
		assert.Contains(t, body, "129,90\u00a0€")
		assert.Contains(t, body, "4.4 / 5 · 17 avis")
		assert.Contains(t, body, ">audio</a>")
		assert.Contains(t, body, "Couleur")
		assert.Contains(t, body, "mdupont")
		assert.NotContains(t, body, "Produit introuvable")
	})

	t.Run("Second request is served from the cache", func(t *testing.T) {
		w := get(server, "/product/13060247469")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, upstream.Hits("13060247469"))
	})

	t.Run("GET /api/product/{id} returns the view", func(t *testing.T) {
		w := get(server, "/api/product/13060247469")

		assert.Equal(t, http.StatusOK, w.Code)
		var view model.ProductView
		require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "Casque sans fil", view.Name)
		assert.Equal(t, "Audio", view.Category)
		require.NotNil(t, view.FinalPrice)
		assert.InDelta(t, 89.90, *view.FinalPrice, 1e-9)
		assert.Equal(t, model.DescriptionPairs, view.Description.Kind)
		require.Len(t, view.Reviews, 1)
		assert.Equal(t, "Très bon", view.Reviews[0].Text)
	})

	t.Run("Upstream 404 renders the error card", func(t *testing.T) {
		w := get(server, "/product/unknown")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Produit introuvable")
		assert.NotContains(t, w.Body.String(), `class="product-card"`)
	})

	t.Run("Failures are not cached", func(t *testing.T) {
		get(server, "/product/unknown")
		assert.Equal(t, 2, upstream.Hits("unknown"))
	})

	t.Run("Null payload renders the error card", func(t *testing.T) {
		w := get(server, "/product/empty")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Produit introuvable")
	})

	t.Run("API error carries the correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/product/unknown", nil)
		req.Header.Set("X-Request-ID", "6f1c2f4e-5d33-4a7e-9a9c-6b3f7a1d2e10")
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeUpstreamUnavailable, resp.Error)
		assert.Equal(t, "6f1c2f4e-5d33-4a7e-9a9c-6b3f7a1d2e10", resp.CorrelationID)
	})

	t.Run("Upstream down renders the error card", func(t *testing.T) {
		down := httptest.NewServer(http.NotFoundHandler())
		down.Close()
		downServer := setupTestServer(t, newTestConfig(down.URL, config.CacheMemory, ""))

		w := get(downServer, "/")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Produit introuvable")
	})
}

func TestRedisCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testRedis := SetupTestRedis(t)
	upstream := NewUpstream(t, map[string]string{"13060247469": casque})
	cfg := newTestConfig(upstream.URL, config.CacheRedis, testRedis.URL)

	t.Run("Concurrent first requests share one fetch", func(t *testing.T) {
		server := setupTestServer(t, cfg)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := get(server, "/api/product/13060247469")
				assert.Equal(t, http.StatusOK, w.Code)
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, upstream.Hits("13060247469"), 2)
	})

	t.Run("A new server instance reads the shared cache", func(t *testing.T) {
		hits := upstream.Hits("13060247469")
		server := setupTestServer(t, cfg)

		w := get(server, "/product/13060247469")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Casque sans fil")
		assert.Equal(t, hits, upstream.Hits("13060247469"))
	})
}
