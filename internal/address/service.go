package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

// Input carries the fields of a shipping address.
type Input struct {
	Street   string  `json:"street" validate:"required,min=3"`
	Building *string `json:"building"`
	City     string  `json:"city" validate:"required,min=2"`
	State    string  `json:"state" validate:"required,min=2"`
	Country  string  `json:"country" validate:"required,min=2"`
	Pincode  string  `json:"pincode" validate:"required,min=4"`
}

// Service defines ownership-scoped address operations.
type Service interface {
	Create(ctx context.Context, actor types.Identity, input Input) (*models.Address, error)
	Get(ctx context.Context, actor types.Identity, id uuid.UUID) (*models.Address, error)
	List(ctx context.Context, actor types.Identity) ([]models.Address, error)
	Update(ctx context.Context, actor types.Identity, id uuid.UUID, input Input) (*models.Address, error)
	Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an address service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor types.Identity, input Input) (*models.Address, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	address := &models.Address{
		UserID:   actor.UserID,
		Street:   input.Street,
		Building: input.Building,
		City:     input.City,
		State:    input.State,
		Country:  input.Country,
		Pincode:  input.Pincode,
	}
	created, err := s.repo.Create(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, actor types.Identity, id uuid.UUID) (*models.Address, error) {
	return s.loadOwned(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor types.Identity) ([]models.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return addresses, nil
}

func (s *service) Update(ctx context.Context, actor types.Identity, id uuid.UUID, input Input) (*models.Address, error) {
	address, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	address.Street = input.Street
	address.Building = input.Building
	address.City = input.City
	address.State = input.State
	address.Country = input.Country
	address.Pincode = input.Pincode

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, actor types.Identity, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// loadOwned fetches the address and enforces that it belongs to the actor.
// Admins may read any address.
func (s *service) loadOwned(ctx context.Context, actor types.Identity, id uuid.UUID) (*models.Address, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}
	return address, nil
}
