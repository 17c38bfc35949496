package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/imagestore"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageUpload carries an uploaded image file through the write pipeline.
// A nil *ImageUpload, or one with Size 0, means no new image was supplied.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ProductInput holds the mutable product fields for create and update
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Discount    float64
	Stock       int
	CategoryID  uuid.UUID
	Image       *ImageUpload
}

// ListInput holds the raw listing parameters as supplied by the caller.
// Out-of-range pages and limits are clamped, unknown sort keys fall back
// to createdAt, and any sort order other than "asc" means descending.
type ListInput struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *uuid.UUID
	SortBy     string
	SortOrder  string
}

// ListResult is one page of products with its pagination descriptor
type ListResult struct {
	Data       []*domain.Product `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	images      imagestore.ImageStore
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, images imagestore.ImageStore, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger,
	}
}

// List runs the listing pipeline: filter, sort, paginate
func (s *productService) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}

	products, total, err := s.productRepo.List(ctx, repository.ListParams{
		Page:       input.Page,
		Limit:      input.Limit,
		Search:     input.Search,
		CategoryID: input.CategoryID,
		SortBy:     input.SortBy,
		SortOrder:  repository.NormalizeSortOrder(input.SortOrder),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListResult{
		Data:       products,
		Pagination: domain.NewPagination(total, input.Page, input.Limit),
	}, nil
}

// Get retrieves a single product with its joined category
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Create persists a new product, uploading its image first when one is
// supplied. If the upload fails, nothing is persisted.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var imageURL *string
	if hasImage(input.Image) {
		url, err := s.images.Upload(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		imageURL = &url
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		Stock:       input.Stock,
		ImageURL:    imageURL,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update replaces all mutable fields of an existing product. When a new
// image is supplied the old one is deleted first, then the new one is
// uploaded; a failed deletion is logged and must not block the rest of
// the update. A failed upload aborts before the record is touched.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	imageURL := existing.ImageURL
	if hasImage(input.Image) {
		if imageURL != nil {
			if err := s.images.Delete(ctx, *imageURL); err != nil {
				s.logger.Warn("Failed to delete old product image",
					zap.String("product_id", id.String()),
					zap.String("image_url", *imageURL),
					zap.Error(err),
				)
			}
		}

		url, err := s.images.Upload(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		imageURL = &url
	}

	product := &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		Stock:       input.Stock,
		ImageURL:    imageURL,
		CategoryID:  input.CategoryID,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product and, best-effort, its stored image. Products
// without an image never touch the image store.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to find product: %w", err)
	}

	if existing.ImageURL != nil {
		if err := s.images.Delete(ctx, *existing.ImageURL); err != nil {
			s.logger.Warn("Failed to delete product image",
				zap.String("product_id", id.String()),
				zap.String("image_url", *existing.ImageURL),
				zap.Error(err),
			)
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func hasImage(image *ImageUpload) bool {
	return image != nil && image.Size > 0 && image.Content != nil
}
