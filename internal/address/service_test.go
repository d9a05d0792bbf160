package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type stubAddressRepo struct {
	addresses map[uuid.UUID]*models.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{addresses: make(map[uuid.UUID]*models.Address)}
}

func (s *stubAddressRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubAddressRepo) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	s.addresses[address.ID] = address
	return address, nil
}

func (s *stubAddressRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	address, ok := s.addresses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *address
	return &clone, nil
}

func (s *stubAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, address := range s.addresses {
		if address.UserID == userID {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (s *stubAddressRepo) Update(ctx context.Context, address *models.Address) error {
	s.addresses[address.ID] = address
	return nil
}

func (s *stubAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.addresses, id)
	return nil
}

func testInput() Input {
	return Input{
		Street:  "12 Baker Street",
		City:    "Springfield",
		State:   "IL",
		Country: "USA",
		Pincode: "62704",
	}
}

func TestCreateAndGetAddress(t *testing.T) {
	repo := newStubAddressRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	owner := types.Identity{UserID: uuid.New(), Role: enums.RoleUser}

	created, err := svc.Create(context.Background(), owner, testInput())
	if err != nil {
		t.Fatalf("create address: %v", err)
	}
	if created.UserID != owner.UserID {
		t.Fatalf("expected owner %s, got %s", owner.UserID, created.UserID)
	}

	got, err := svc.Get(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("get address: %v", err)
	}
	if got.Street != "12 Baker Street" {
		t.Fatalf("unexpected street %q", got.Street)
	}
}

func TestGetAddressOwnership(t *testing.T) {
	repo := newStubAddressRepo()
	svc, _ := NewService(repo)
	owner := types.Identity{UserID: uuid.New(), Role: enums.RoleUser}

	created, err := svc.Create(context.Background(), owner, testInput())
	if err != nil {
		t.Fatalf("create address: %v", err)
	}

	stranger := types.Identity{UserID: uuid.New(), Role: enums.RoleUser}
	_, err = svc.Get(context.Background(), stranger, created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for stranger, got %v", err)
	}

	admin := types.Identity{UserID: uuid.New(), Role: enums.RoleAdmin}
	if _, err := svc.Get(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
}

func TestDeleteAddress(t *testing.T) {
	repo := newStubAddressRepo()
	svc, _ := NewService(repo)
	owner := types.Identity{UserID: uuid.New(), Role: enums.RoleUser}

	created, err := svc.Create(context.Background(), owner, testInput())
	if err != nil {
		t.Fatalf("create address: %v", err)
	}

	if err := svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("delete address: %v", err)
	}

	_, err = svc.Get(context.Background(), owner, created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}
