package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mock repositories and image store for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	listErr  error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, params repository.ListParams) ([]*domain.Product, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	products := []*domain.Product{}
	for _, p := range m.products {
		copied := *p
		products = append(products, &copied)
	}
	return products, len(m.products), nil
}

func (m *mockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// stubImageStore records image store calls in order and can be primed to
// fail uploads or deletions
type stubImageStore struct {
	uploads   []string // filenames passed to Upload
	deletes   []string // URLs passed to Delete
	calls     []string // call order: "upload" / "delete"
	uploadErr error
	deleteErr error
	nextURL   string
}

func (m *stubImageStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	m.calls = append(m.calls, "upload")
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, filename)
	return m.nextURL, nil
}

func (m *stubImageStore) Delete(ctx context.Context, url string) error {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, url)
	return nil
}

func strPtr(s string) *string { return &s }

func seedProduct(repo *mockProductRepository, imageURL *string) *domain.Product {
	product := &domain.Product{
		ID:         uuid.New(),
		Name:       "Premium Shirt",
		Price:      100000,
		Discount:   20,
		Stock:      3,
		ImageURL:   imageURL,
		CategoryID: uuid.New(),
		CreatedAt:  time.Now().Add(-time.Hour),
		UpdatedAt:  time.Now().Add(-time.Hour),
	}
	repo.products[product.ID] = product
	return product
}

func newImage() *ImageUpload {
	return &ImageUpload{
		Filename: "photo.png",
		Size:     4,
		Content:  strings.NewReader("data"),
	}
}

func inputFrom(p *domain.Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
	}
}

func TestUpdate_WithoutNewImagePreservesImageURL(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{nextURL: "/uploads/new.png"}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	updated, err := svc.Update(context.Background(), existing.ID, inputFrom(existing))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.ImageURL == nil || *updated.ImageURL != "/uploads/old.png" {
		t.Errorf("expected prior image URL to be preserved, got %v", updated.ImageURL)
	}
	if len(images.uploads) != 0 || len(images.deletes) != 0 {
		t.Error("no image store calls expected when no new image is supplied")
	}
}

func TestUpdate_WithNewImageDeletesOldThenUploads(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{nextURL: "/uploads/new.png"}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	input := inputFrom(existing)
	input.Image = newImage()

	updated, err := svc.Update(context.Background(), existing.ID, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(images.deletes) != 1 || images.deletes[0] != "/uploads/old.png" {
		t.Errorf("expected old image to be deleted, got deletes %v", images.deletes)
	}
	if len(images.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(images.uploads))
	}
	if updated.ImageURL == nil || *updated.ImageURL != "/uploads/new.png" {
		t.Errorf("expected new image URL to be stored, got %v", updated.ImageURL)
	}

	// Delete must be recorded before the upload
	if images.calls[0] != "delete" || images.calls[1] != "upload" {
		t.Errorf("expected delete before upload, got call order %v", images.calls)
	}
}

func TestUpdate_ImageDeletionFailureDoesNotBlockUpdate(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{nextURL: "/uploads/new.png", deleteErr: errors.New("image host unreachable")}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	input := inputFrom(existing)
	input.Image = newImage()

	updated, err := svc.Update(context.Background(), existing.ID, input)
	if err != nil {
		t.Fatalf("Update must swallow image deletion failures, got: %v", err)
	}

	if len(images.uploads) != 1 {
		t.Error("upload must still happen after a failed deletion")
	}
	if updated.ImageURL == nil || *updated.ImageURL != "/uploads/new.png" {
		t.Errorf("expected new image URL despite failed deletion, got %v", updated.ImageURL)
	}
}

func TestUpdate_UploadFailureAbortsPersist(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{uploadErr: errors.New("image host unreachable")}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	input := inputFrom(existing)
	input.Name = "Renamed"
	input.Image = newImage()

	_, err := svc.Update(context.Background(), existing.ID, input)
	if err == nil {
		t.Fatal("expected upload failure to surface")
	}

	stored := repo.products[existing.ID]
	if stored.Name != "Premium Shirt" {
		t.Error("record must not be persisted after a failed upload")
	}
}

func TestUpdate_UnknownIDIsNotFound(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{}
	svc := NewProductService(repo, images, zap.NewNop())

	_, err := svc.Update(context.Background(), uuid.New(), ProductInput{Name: "x"})
	if err != repository.ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreate_UploadFailureAbortsPersist(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{uploadErr: errors.New("image host unreachable")}
	svc := NewProductService(repo, images, zap.NewNop())

	input := ProductInput{Name: "Shirt", Price: 10, Stock: 1, CategoryID: uuid.New(), Image: newImage()}

	_, err := svc.Create(context.Background(), input)
	if err == nil {
		t.Fatal("expected upload failure to surface")
	}
	if len(repo.products) != 0 {
		t.Error("no record must be persisted after a failed upload")
	}
}

func TestCreate_WithoutImageStoresNilURL(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{}
	svc := NewProductService(repo, images, zap.NewNop())

	product, err := svc.Create(context.Background(), ProductInput{Name: "Shirt", Price: 10, Stock: 1, CategoryID: uuid.New()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if product.ImageURL != nil {
		t.Error("expected nil image URL when no image is supplied")
	}
	if len(images.uploads) != 0 {
		t.Error("no image store calls expected")
	}
}

func TestDelete_WithoutImagePerformsNoImageStoreCall(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, nil)

	if err := svc.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(images.deletes) != 0 {
		t.Error("products without an image must not touch the image store")
	}
	if _, exists := repo.products[existing.ID]; exists {
		t.Error("record must be removed")
	}
}

func TestDelete_RemovesImageFirst(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	if err := svc.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(images.deletes) != 1 || images.deletes[0] != "/uploads/old.png" {
		t.Errorf("expected image deletion, got %v", images.deletes)
	}
}

func TestDelete_ImageDeletionFailureDoesNotBlock(t *testing.T) {
	repo := newMockProductRepository()
	images := &stubImageStore{deleteErr: errors.New("image host unreachable")}
	svc := NewProductService(repo, images, zap.NewNop())

	existing := seedProduct(repo, strPtr("/uploads/old.png"))

	if err := svc.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("Delete must swallow image deletion failures, got: %v", err)
	}

	if _, exists := repo.products[existing.ID]; exists {
		t.Error("record must be removed despite failed image deletion")
	}
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo, &stubImageStore{}, zap.NewNop())

	if err := svc.Delete(context.Background(), uuid.New()); err != repository.ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestList_ComputesPaginationDescriptor(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo, &stubImageStore{}, zap.NewNop())

	for i := 0; i < 5; i++ {
		seedProduct(repo, nil)
	}

	result, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if result.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Pagination.Total)
	}
	if result.Pagination.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.Pagination.TotalPages)
	}
	if !result.Pagination.HasNextPage || result.Pagination.HasPrevPage {
		t.Error("page 1 of 3 must have a next page and no previous page")
	}
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	repo := newMockProductRepository()
	svc := NewProductService(repo, &stubImageStore{}, zap.NewNop())

	result, err := svc.List(context.Background(), ListInput{Page: -3, Limit: 0})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if result.Pagination.Page != 1 {
		t.Errorf("Page = %d, want 1", result.Pagination.Page)
	}
	if result.Pagination.Limit != 10 {
		t.Errorf("Limit = %d, want 10", result.Pagination.Limit)
	}
}

func TestList_RepositoryErrorSurfaces(t *testing.T) {
	repo := newMockProductRepository()
	repo.listErr = errors.New("connection refused")
	svc := NewProductService(repo, &stubImageStore{}, zap.NewNop())

	if _, err := svc.List(context.Background(), ListInput{Page: 1, Limit: 10}); err == nil {
		t.Fatal("expected repository error to surface")
	}
}
