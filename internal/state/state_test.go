package state

import (
	"testing"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func makeProducts(n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{ID: uuid.New(), Name: "product"}
	}
	return products
}

func TestReduce_SetProductsClearsLoading(t *testing.T) {
	s := State{}
	s = Reduce(s, SetProductsLoading{Loading: true})

	if !s.Products.Loading {
		t.Fatal("expected loading to be set")
	}

	s = Reduce(s, SetProducts{Products: makeProducts(3)})

	if s.Products.Loading {
		t.Error("set-all must clear loading")
	}
	if len(s.Products.Items) != 3 {
		t.Errorf("expected 3 products, got %d", len(s.Products.Items))
	}
}

func TestReduce_AddProductAppends(t *testing.T) {
	s := Reduce(State{}, SetProducts{Products: makeProducts(2)})
	added := domain.Product{ID: uuid.New(), Name: "new"}

	s = Reduce(s, AddProduct{Product: added})

	if len(s.Products.Items) != 3 {
		t.Fatalf("expected 3 products, got %d", len(s.Products.Items))
	}
	if s.Products.Items[2].ID != added.ID {
		t.Error("added product must be appended at the end")
	}
}

func TestReduce_UpdateProductReplacesByID(t *testing.T) {
	products := makeProducts(3)
	s := Reduce(State{}, SetProducts{Products: products})

	updated := products[1]
	updated.Name = "renamed"
	s = Reduce(s, UpdateProduct{Product: updated})

	if s.Products.Items[1].Name != "renamed" {
		t.Error("update-one must replace the matching product")
	}
	if s.Products.Items[0].Name != "product" || s.Products.Items[2].Name != "product" {
		t.Error("update-one must leave other products untouched")
	}
}

func TestReduce_SetErrorClearsLoading(t *testing.T) {
	s := Reduce(State{}, SetProductsLoading{Loading: true})
	s = Reduce(s, SetProductsError{Err: "failed to fetch products"})

	if s.Products.Loading {
		t.Error("set-error must clear loading")
	}
	if s.Products.Err != "failed to fetch products" {
		t.Errorf("unexpected error value %q", s.Products.Err)
	}
}

func TestReduce_InputStateIsNotMutated(t *testing.T) {
	products := makeProducts(3)
	before := Reduce(State{}, SetProducts{Products: products})
	removed := before.Products.Items[0].ID

	after := Reduce(before, RemoveProduct{ID: removed.String()})

	if len(before.Products.Items) != 3 {
		t.Error("input snapshot must not be mutated by remove-one")
	}
	if len(after.Products.Items) != 2 {
		t.Errorf("expected 2 products after removal, got %d", len(after.Products.Items))
	}

	updated := before.Products.Items[1]
	updated.Name = "renamed"
	Reduce(before, UpdateProduct{Product: updated})

	if before.Products.Items[1].Name != "product" {
		t.Error("input snapshot must not be mutated by update-one")
	}
}

func TestReduce_CategorySliceIsIndependent(t *testing.T) {
	s := Reduce(State{}, SetProducts{Products: makeProducts(2)})
	s = Reduce(s, SetCategories{Categories: []domain.Category{{ID: uuid.New(), Name: "tools"}}})
	s = Reduce(s, SetCategoriesError{Err: "failed to fetch categories"})

	if s.Products.Err != "" {
		t.Error("category transitions must not touch the product slice")
	}
	if len(s.Products.Items) != 2 {
		t.Error("category transitions must not touch product items")
	}
	if s.Categories.Err == "" {
		t.Error("expected category error to be set")
	}
}

func TestReduce_UnknownActionReturnsStateUnchanged(t *testing.T) {
	s := Reduce(State{}, SetProducts{Products: makeProducts(2)})
	next := Reduce(s, nil)

	if len(next.Products.Items) != 2 {
		t.Error("nil action must leave the state unchanged")
	}
}

func TestProperty_RemoveOneAfterSetAll(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("remove-one leaves exactly that id absent with order preserved", prop.ForAll(
		func(count int, removeIndex int) bool {
			products := makeProducts(count)
			target := products[removeIndex%count]

			s := Reduce(State{}, SetProducts{Products: products})
			s = Reduce(s, RemoveProduct{ID: target.ID.String()})

			if len(s.Products.Items) != count-1 {
				t.Logf("FAIL: expected %d products, got %d", count-1, len(s.Products.Items))
				return false
			}

			// The survivors keep their original relative order
			rest := 0
			for _, p := range products {
				if p.ID == target.ID {
					continue
				}
				if s.Products.Items[rest].ID != p.ID {
					t.Logf("FAIL: order not preserved at index %d", rest)
					return false
				}
				rest++
			}

			return true
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
