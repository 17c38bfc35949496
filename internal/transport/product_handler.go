package transport

import (
	"net/http"
	"strconv"
	"strings"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadSize = 32 << 20 // 32 MB in-memory multipart limit

// ProductResponse represents a product in API responses. FinalPrice is
// derived from price and discount on the way out.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Discount    float64           `json:"discount"`
	FinalPrice  float64           `json:"finalPrice"`
	Stock       int               `json:"stock"`
	ImageURL    *string           `json:"imageUrl"`
	CategoryID  string            `json:"categoryId"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// ProductListResponse is one page of products with pagination metadata
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// Get serves both the single-product detail (?id=) and the filtered,
// sorted, paginated listing.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		h.getByID(w, r, idParam)
		return
	}

	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	input := service.ListInput{
		Page:      page,
		Limit:     limit,
		Search:    strings.TrimSpace(query.Get("search")),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}

	if categoryParam := query.Get("categoryId"); categoryParam != "" {
		categoryID, err := uuid.Parse(categoryParam)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		input.CategoryID = &categoryID
	}

	if input.SortBy == "" {
		input.SortBy = "createdAt"
	}

	result, err := h.productService.List(r.Context(), input)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	response := ProductListResponse{
		Data:       make([]ProductResponse, 0, len(result.Data)),
		Pagination: result.Pagination,
	}
	for _, product := range result.Data {
		response.Data = append(response.Data, toProductResponse(product))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func (h *ProductHandler) getByID(w http.ResponseWriter, r *http.Request, idParam string) {
	id, err := uuid.Parse(idParam)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("id", idParam), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Create handles the multipart product creation form
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, validationErrors, err := h.parseProductForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	product, err := h.productService.Create(r.Context(), *input)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update handles the multipart product update form; the target id is a
// form field, matching the create form shape.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, validationErrors, err := h.parseProductForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	id, idErr := uuid.Parse(r.FormValue("id"))
	if idErr != nil {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field:   "id",
			Message: "This field is required",
		})
	}
	if len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	product, err := h.productService.Update(r.Context(), id, *input)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete removes a product by the id query parameter
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// parseProductForm extracts and validates the shared create/update form
// fields. Price and stock must parse; a malformed discount degrades to 0.
func (h *ProductHandler) parseProductForm(r *http.Request) (*service.ProductInput, []middleware.ValidationError, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, err
	}

	var validationErrors []middleware.ValidationError

	input := &service.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
	}

	if input.Name == "" {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "name", Message: "This field is required",
		})
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "price", Message: "Value must be a non-negative number",
		})
	}
	input.Price = price

	// Missing or malformed discount means no discount
	discount, err := strconv.ParseFloat(r.FormValue("discount"), 64)
	if err != nil {
		discount = 0
	}
	if discount < 0 || discount > 100 {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "discount", Message: "Value must be between 0 and 100",
		})
	}
	input.Discount = discount

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil || stock < 0 {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "stock", Message: "Value must be a non-negative integer",
		})
	}
	input.Stock = stock

	categoryID, err := uuid.Parse(r.FormValue("categoryId"))
	if err != nil {
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "categoryId", Message: "This field is required",
		})
	}
	input.CategoryID = categoryID

	file, header, err := r.FormFile("image")
	if err != nil && err != http.ErrMissingFile {
		return nil, nil, err
	}
	if err == nil {
		input.Image = &service.ImageUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	}

	return input, validationErrors, nil
}

func toProductResponse(p *domain.Product) ProductResponse {
	response := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		FinalPrice:  p.FinalPrice(),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID.String(),
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt:   p.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	if p.Category != nil {
		category := toCategoryResponse(p.Category)
		response.Category = &category
	}

	return response
}
