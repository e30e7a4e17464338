// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/analytics"
	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/internal/product"
	"github.com/abgdnv/productcatalog/internal/service"
	applog "github.com/abgdnv/productcatalog/pkg/logger"
	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ReportGenerator builds the analytics report.
type ReportGenerator interface {
	GenerateReport(ctx context.Context) (*analytics.Report, error)
}

type Handler struct {
	service   service.ProductService
	analytics ReportGenerator
	logger    *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided services.
func NewHandler(service service.ProductService, analytics ReportGenerator, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		analytics: analytics,
		logger:    applog.Component(logger, "rest"),
	}
}

// DeleteResponse reports the outcome of a delete in both stores.
type DeleteResponse struct {
	Result  bool   `json:"result"`
	Status  string `json:"status"`
	Primary bool   `json:"primary"`
	Index   bool   `json:"index"`
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/search", h.Search)
		r.Get("/analytics", h.Analytics)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req product.CreateRequest
	if !web.DecodeJSON(w, r, h.logger, &req) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "name", req.Name)

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", id, "Name", req.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, map[string]string{"id": id})
}

// Update applies a partial update to a product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch product.Patch
	if !web.DecodeJSON(w, r, h.logger, &patch) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id, "fields", len(patch))

	modified, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	result := "not modified"
	if modified {
		result = "updated"
		h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"result": result})
}

// DeleteByID deletes a product from both stores.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	res, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to delete product with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product delete finished", "ID", id, "status", res.Outcome())
	web.RespondJSON(w, h.logger, http.StatusOK, DeleteResponse{
		Result:  res.Deleted(),
		Status:  res.Outcome(),
		Primary: res.Primary,
		Index:   res.Index,
	})
}

// Search returns the products whose description matches the query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query, ok := web.RequiredQuery(w, r, h.logger, "query")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received search request", "query", query)
	found, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to search products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Analytics returns the catalog report.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.GenerateReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to generate analytics report")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, report)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps service errors to HTTP responses.
// Unexpected errors are answered with the generic message.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var vErr *perrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.WarnContext(r.Context(), "Validation failed", "kind", vErr.Kind, "field", vErr.Field, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, perrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", r.PathValue("id"))
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", r.PathValue("id")))
	case errors.Is(err, perrors.ErrStoreUnavailable), errors.Is(err, perrors.ErrIndexUnavailable):
		h.logger.ErrorContext(r.Context(), "Backing store unavailable", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Service is temporarily unavailable")
	default:
		h.logger.ErrorContext(r.Context(), message, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, message)
	}
}
