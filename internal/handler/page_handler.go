package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"productpage/internal/metrics"
	"productpage/internal/middleware"
	"productpage/internal/service"
	"productpage/internal/view"
)

const productPagePrefix = "/product/"

// PageHandler serves the product page as HTML.
type PageHandler struct {
	service   service.ProductService
	renderer  *view.Renderer
	metrics   *metrics.Metrics
	defaultID string
	stream    bool
	logger    zerolog.Logger
}

// NewPageHandler creates a page handler. defaultID is shown on "/". When
// stream is set, the loading box is flushed before the product is fetched.
func NewPageHandler(
	service service.ProductService,
	renderer *view.Renderer,
	m *metrics.Metrics,
	defaultID string,
	stream bool,
	logger zerolog.Logger,
) *PageHandler {
	return &PageHandler{
		service:   service,
		renderer:  renderer,
		metrics:   m,
		defaultID: defaultID,
		stream:    stream,
		logger:    logger.With().Str("handler", "page").Logger(),
	}
}

// Home handles GET / with the configured product.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.renderStatic(w, r, http.StatusNotFound, view.Failed())
		return
	}
	h.serve(w, r, h.defaultID)
}

// Product handles GET /product/{id}.
func (h *PageHandler) Product(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, pathID(r.URL.Path, productPagePrefix))
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, id string) {
	if !allowedMethod(r) {
		h.renderStatic(w, r, http.StatusMethodNotAllowed, view.Failed())
		return
	}

	if h.stream {
		if flusher, ok := w.(http.Flusher); ok {
			h.serveStream(w, r, flusher, id)
			return
		}
	}

	page, status := h.load(r, id)
	if status == 0 {
		return
	}
	h.renderStatic(w, r, status, page)
}

// serveStream sends the loading box first and completes the document once
// the fetch settles. The status is committed as 200 before the outcome is
// known.
func (h *PageHandler) serveStream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, id string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.renderer.RenderLoading(w, view.Loading()); err != nil {
		h.logger.Error().Err(err).Msg("failed to render loading state")
		return
	}
	h.metrics.PageRendered(metrics.StateLoading)
	flusher.Flush()

	page, status := h.load(r, id)
	if status == 0 {
		return
	}
	if err := h.renderer.RenderResult(w, page); err != nil {
		h.logger.Error().Err(err).Str("product_id", id).Msg("failed to render page")
		return
	}
	h.metrics.PageRendered(string(page.State))
}

// load fetches the view for id. A zero status means the client is gone and
// nothing should be written.
func (h *PageHandler) load(r *http.Request, id string) (view.Page, int) {
	product, err := h.service.GetView(r.Context(), id)
	if err == nil {
		return view.Ready(product), http.StatusOK
	}
	if clientGone(r, err) {
		h.logger.Debug().Str("product_id", id).Msg("client went away")
		return view.Page{}, 0
	}

	status, derr := classify(err)
	event := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error().Err(err)
	}
	event.
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("product_id", id).
		Str("error", derr.Code).
		Int("status", status).
		Msg("showing error page")
	return view.Failed(), status
}

func (h *PageHandler) renderStatic(w http.ResponseWriter, r *http.Request, status int, page view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := h.renderer.Render(w, page); err != nil {
		h.logger.Error().Err(err).Msg("failed to render page")
		return
	}
	h.metrics.PageRendered(string(page.State))
}
