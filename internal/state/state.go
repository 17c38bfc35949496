// Package state holds the client-side view of the last-fetched product
// and category lists. It is a mirror for UI consumption, not a source of
// truth: transitions are pure functions over immutable snapshots, with no
// knowledge of network I/O.
package state

import "catalog-admin/internal/domain"

// ProductSlice holds the product list together with its fetch status
type ProductSlice struct {
	Items   []domain.Product
	Loading bool
	Err     string
}

// CategorySlice holds the category list together with its fetch status
type CategorySlice struct {
	Items   []domain.Category
	Loading bool
	Err     string
}

// State is the full client cache: two independent slices
type State struct {
	Products   ProductSlice
	Categories CategorySlice
}

// Action is a state transition request. The concrete types below are the
// only transitions; anything else leaves the state unchanged.
type Action interface {
	isAction()
}

type SetProducts struct{ Products []domain.Product }
type AddProduct struct{ Product domain.Product }
type UpdateProduct struct{ Product domain.Product }
type RemoveProduct struct{ ID string }
type SetProductsLoading struct{ Loading bool }
type SetProductsError struct{ Err string }

type SetCategories struct{ Categories []domain.Category }
type AddCategory struct{ Category domain.Category }
type UpdateCategory struct{ Category domain.Category }
type RemoveCategory struct{ ID string }
type SetCategoriesLoading struct{ Loading bool }
type SetCategoriesError struct{ Err string }

func (SetProducts) isAction()          {}
func (AddProduct) isAction()           {}
func (UpdateProduct) isAction()        {}
func (RemoveProduct) isAction()        {}
func (SetProductsLoading) isAction()   {}
func (SetProductsError) isAction()     {}
func (SetCategories) isAction()        {}
func (AddCategory) isAction()          {}
func (UpdateCategory) isAction()       {}
func (RemoveCategory) isAction()       {}
func (SetCategoriesLoading) isAction() {}
func (SetCategoriesError) isAction()   {}

// Reduce applies one action to a state snapshot and returns the next
// snapshot. The input state is never mutated; the affected slice is
// rebuilt, the other slice is carried over as-is.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case SetProducts:
		s.Products = ProductSlice{Items: copyProducts(action.Products), Err: s.Products.Err}
	case AddProduct:
		items := copyProducts(s.Products.Items)
		s.Products.Items = append(items, action.Product)
	case UpdateProduct:
		items := copyProducts(s.Products.Items)
		for i, p := range items {
			if p.ID == action.Product.ID {
				items[i] = action.Product
			}
		}
		s.Products.Items = items
	case RemoveProduct:
		items := make([]domain.Product, 0, len(s.Products.Items))
		for _, p := range s.Products.Items {
			if p.ID.String() != action.ID {
				items = append(items, p)
			}
		}
		s.Products.Items = items
	case SetProductsLoading:
		s.Products.Loading = action.Loading
	case SetProductsError:
		s.Products.Err = action.Err
		s.Products.Loading = false

	case SetCategories:
		s.Categories = CategorySlice{Items: copyCategories(action.Categories), Err: s.Categories.Err}
	case AddCategory:
		items := copyCategories(s.Categories.Items)
		s.Categories.Items = append(items, action.Category)
	case UpdateCategory:
		items := copyCategories(s.Categories.Items)
		for i, c := range items {
			if c.ID == action.Category.ID {
				items[i] = action.Category
			}
		}
		s.Categories.Items = items
	case RemoveCategory:
		items := make([]domain.Category, 0, len(s.Categories.Items))
		for _, c := range s.Categories.Items {
			if c.ID.String() != action.ID {
				items = append(items, c)
			}
		}
		s.Categories.Items = items
	case SetCategoriesLoading:
		s.Categories.Loading = action.Loading
	case SetCategoriesError:
		s.Categories.Err = action.Err
		s.Categories.Loading = false
	}

	return s
}

func copyProducts(items []domain.Product) []domain.Product {
	out := make([]domain.Product, len(items))
	copy(out, items)
	return out
}

func copyCategories(items []domain.Category) []domain.Category {
	out := make([]domain.Category, len(items))
	copy(out, items)
	return out
}
