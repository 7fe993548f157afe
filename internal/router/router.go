package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"productpage/internal/handler"
	"productpage/internal/middleware"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	pageHandler *handler.PageHandler,
	productHandler *handler.ProductHandler,
	metricsHandler http.Handler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	// JSON view of a product
	mux.HandleFunc("/api/product/", productHandler.GetByID)

	// HTML pages; "/" also catches unknown paths and answers them with 404
	mux.HandleFunc("/product/", pageHandler.Product)
	mux.HandleFunc("/", pageHandler.Home)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
