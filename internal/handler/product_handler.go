package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"productpage/internal/service"
)

const productAPIPrefix = "/api/product/"

// ProductHandler serves the normalized product view as JSON.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetByID handles GET /api/product/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if !allowedMethod(r) {
		writeError(w, r, http.StatusMethodNotAllowed, errMethodNotAllowed, h.logger)
		return
	}

	productID := pathID(r.URL.Path, productAPIPrefix)

	view, err := h.service.GetView(r.Context(), productID)
	if err != nil {
		if clientGone(r, err) {
			h.logger.Debug().Str("product_id", productID).Msg("client went away")
			return
		}
		status, derr := classify(err)
		writeError(w, r, status, derr, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
