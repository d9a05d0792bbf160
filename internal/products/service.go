package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db"
	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/pagination"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// Service defines catalog operations for sellers and admins.
type Service interface {
	Create(ctx context.Context, actor types.Identity, input CreateProductInput) (*ProductView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[ProductView], error)
	Update(ctx context.Context, actor types.Identity, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error
	CreateCategory(ctx context.Context, actor types.Identity, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo Repository
}

// NewService builds a products service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

// SpecialPrice derives the effective sale price from the list price and the
// percentage discount, rounded to two decimal places.
func SpecialPrice(price, discount decimal.Decimal) decimal.Decimal {
	cut := price.Mul(discount).Div(oneHundred)
	return price.Sub(cut).Round(2)
}

func (s *service) Create(ctx context.Context, actor types.Identity, input CreateProductInput) (*ProductView, error) {
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers can create products")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Discount.IsNegative() || input.Discount.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product := &models.Product{
		SellerID:     actor.UserID,
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		Quantity:     input.Quantity,
		Price:        input.Price,
		Discount:     input.Discount,
		SpecialPrice: SpecialPrice(input.Price, input.Discount),
		IsActive:     true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toView(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toView(product), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*pagination.Page[ProductView], error) {
	products, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *toView(&products[i]))
	}
	page := pagination.NewPage(views, params, total)
	return &page, nil
}

func (s *service) Update(ctx context.Context, actor types.Identity, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !CanOperate(actor, product, ActionUpdate) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Discount != nil {
		if input.Discount.IsNegative() || input.Discount.GreaterThan(oneHundred) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
		}
		product.Discount = *input.Discount
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.SpecialPrice = SpecialPrice(product.Price, product.Discount)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return toView(product), nil
}

func (s *service) Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !CanOperate(actor, product, ActionDelete) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, actor types.Identity, input CreateCategoryInput) (*models.Category, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create categories")
	}
	category, err := s.repo.CreateCategory(ctx, &models.Category{Name: input.Name})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func toView(product *models.Product) *ProductView {
	view := &ProductView{
		ID:           product.ID,
		SellerID:     product.SellerID,
		CategoryID:   product.CategoryID,
		Name:         product.Name,
		Description:  product.Description,
		ImageURL:     product.ImageURL,
		Quantity:     product.Quantity,
		Price:        product.Price,
		Discount:     product.Discount,
		SpecialPrice: product.SpecialPrice,
		IsActive:     product.IsActive,
	}
	if product.Category != nil {
		view.CategoryName = &product.Category.Name
	}
	return view
}
