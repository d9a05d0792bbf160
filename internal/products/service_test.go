package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/pagination"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type stubProductsRepo struct {
	products   map[uuid.UUID]*models.Product
	categories map[uuid.UUID]*models.Category
	deleted    []uuid.UUID
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{
		products:   make(map[uuid.UUID]*models.Product),
		categories: make(map[uuid.UUID]*models.Category),
	}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductsRepo) ListIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, product := range s.products {
		if product.SellerID == sellerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, product *models.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductsRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubProductsRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubProductsRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func sellerIdentity() types.Identity {
	return types.Identity{UserID: uuid.New(), Email: "seller@example.com", Role: enums.RoleSeller}
}

func TestSpecialPriceDerivation(t *testing.T) {
	price := decimal.RequireFromString("199.99")
	discount := decimal.NewFromInt(15)

	got := SpecialPrice(price, discount)
	want := decimal.RequireFromString("169.99")
	if !got.Equal(want) {
		t.Fatalf("SpecialPrice = %s, want %s", got, want)
	}

	if got := SpecialPrice(price, decimal.Zero); !got.Equal(price) {
		t.Fatalf("zero discount must keep the list price, got %s", got)
	}
}

func TestCreateProductDerivesSpecialPrice(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	actor := sellerIdentity()

	view, err := svc.Create(context.Background(), actor, CreateProductInput{
		Name:     "Mechanical Keyboard",
		Quantity: 10,
		Price:    decimal.NewFromInt(100),
		Discount: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if !view.SpecialPrice.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected special price 75, got %s", view.SpecialPrice)
	}
	if view.SellerID != actor.UserID {
		t.Fatalf("expected seller id %s, got %s", actor.UserID, view.SellerID)
	}
}

func TestCreateProductForbiddenForPlainUser(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)

	actor := types.Identity{UserID: uuid.New(), Role: enums.RoleUser}
	_, err := svc.Create(context.Background(), actor, CreateProductInput{
		Name:  "Nope",
		Price: decimal.NewFromInt(10),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)
	owner := sellerIdentity()

	view, err := svc.Create(context.Background(), owner, CreateProductInput{
		Name:     "Desk Lamp",
		Quantity: 5,
		Price:    decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	other := sellerIdentity()
	_, err = svc.Update(context.Background(), other, view.ID, UpdateProductInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for non-owner, got %v", err)
	}

	admin := types.Identity{UserID: uuid.New(), Role: enums.RoleAdmin}
	newDiscount := decimal.NewFromInt(50)
	updated, err := svc.Update(context.Background(), admin, view.ID, UpdateProductInput{Discount: &newDiscount})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !updated.SpecialPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected recomputed special price 20, got %s", updated.SpecialPrice)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), types.Identity{UserID: uuid.New(), Role: enums.RoleAdmin}, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCanOperate(t *testing.T) {
	owner := sellerIdentity()
	product := &models.Product{SellerID: owner.UserID}

	if !CanOperate(owner, product, ActionUpdate) {
		t.Fatal("owner must be able to operate on own product")
	}
	if CanOperate(sellerIdentity(), product, ActionUpdate) {
		t.Fatal("other sellers must not operate on the product")
	}
	if !CanOperate(types.Identity{UserID: uuid.New(), Role: enums.RoleAdmin}, product, ActionDelete) {
		t.Fatal("admin must operate on any product")
	}
	if CanOperate(types.Identity{UserID: owner.UserID, Role: enums.RoleUser}, product, ActionUpdate) {
		t.Fatal("plain users must not operate on products")
	}
}
