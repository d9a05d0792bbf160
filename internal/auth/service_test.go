package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tvillarrealb/shopstack-backend/internal/users"
	pkgAuth "github.com/tvillarrealb/shopstack-backend/pkg/auth"
	"github.com/tvillarrealb/shopstack-backend/pkg/config"
	"github.com/tvillarrealb/shopstack-backend/pkg/db/models"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/security"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type stubUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
	createErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:    make(map[string]*models.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.byEmail[dto.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	if _, exists := s.byEmail[email]; exists {
		return gorm.ErrDuplicatedKey
	}
	for old, user := range s.byEmail {
		if user.ID == id {
			delete(s.byEmail, old)
			user.Email = email
			s.byEmail[email] = user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	for _, user := range s.byEmail {
		if user.ID == id {
			user.PasswordHash = hash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "shopstack", ExpirationMinutes: 30}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:     "  Buyer@Example.COM ",
		Password:  "hunter22hunter22",
		FirstName: "Pat",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", registered.User.Email)
	}
	if len(registered.User.Roles) != 1 || registered.User.Roles[0] != "user" {
		t.Fatalf("expected default role user, got %v", registered.User.Roles)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "hunter22hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.RoleUser {
		t.Fatalf("expected role user in claims, got %s", claims.Role)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("claims user id mismatch")
	}
	if _, ok := repo.lastLogins[registered.User.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "correct-password",
		FirstName: "Pat",
		LastName:  "Doe",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong-password"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), invalidCredentialsMessage) {
		t.Fatalf("error must not leak detail: %v", err)
	}
}

func TestLoginRejectsUnknownEmailWithSameMessage(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "anything"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	hash, err := security.HashPassword("some-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.byEmail["inactive@example.com"] = &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: hash,
		Roles:        pq.StringArray{"user"},
		IsActive:     false,
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "inactive@example.com", Password: "some-password"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for inactive user, got %v", err)
	}
}

func TestPrimaryRolePrecedence(t *testing.T) {
	cases := []struct {
		roles pq.StringArray
		want  enums.Role
	}{
		{pq.StringArray{"user"}, enums.RoleUser},
		{pq.StringArray{"user", "seller"}, enums.RoleSeller},
		{pq.StringArray{"seller", "admin"}, enums.RoleAdmin},
		{nil, enums.RoleUser},
	}
	for _, tc := range cases {
		user := &models.User{Roles: tc.roles}
		if got := PrimaryRole(user); got != tc.want {
			t.Fatalf("PrimaryRole(%v) = %s, want %s", tc.roles, got, tc.want)
		}
	}
}

func TestRegisterWithSellerRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:     "merchant@example.com",
		Password:  "hunter22hunter22",
		FirstName: "Sam",
		LastName:  "Stone",
		Roles:     []string{"seller"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(registered.User.Roles) != 2 || registered.User.Roles[0] != "user" || registered.User.Roles[1] != "seller" {
		t.Fatalf("expected roles [user seller], got %v", registered.User.Roles)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), registered.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.RoleSeller {
		t.Fatalf("expected seller role in claims, got %s", claims.Role)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "sneaky@example.com",
		Password:  "hunter22hunter22",
		FirstName: "Sam",
		LastName:  "Stone",
		Roles:     []string{"admin"},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION for admin self-assignment, got %v", err)
	}
	if _, ok := repo.byEmail["sneaky@example.com"]; ok {
		t.Fatal("account must not be created")
	}
}

func TestUpdateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email:     "old@example.com",
		Password:  "hunter22hunter22",
		FirstName: "Pat",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	identity := types.Identity{UserID: registered.User.ID, Email: registered.User.Email, Role: enums.RoleUser}

	updated, err := svc.UpdateEmail(ctx, identity, UpdateEmailRequest{Email: " New@Example.COM "})
	if err != nil {
		t.Fatalf("update email: %v", err)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("expected normalized new email, got %q", updated.Email)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "hunter22hunter22"}); err != nil {
		t.Fatalf("login with new email: %v", err)
	}
}

func TestUpdateEmailRejectsTakenAddress(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email: "taken@example.com", Password: "hunter22hunter22", FirstName: "Pat", LastName: "Doe",
	}); err != nil {
		t.Fatalf("register first: %v", err)
	}
	second, err := svc.Register(ctx, RegisterRequest{
		Email: "second@example.com", Password: "hunter22hunter22", FirstName: "Sam", LastName: "Stone",
	})
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	identity := types.Identity{UserID: second.User.ID, Email: second.User.Email, Role: enums.RoleUser}

	_, err = svc.UpdateEmail(ctx, identity, UpdateEmailRequest{Email: "taken@example.com"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Email: "buyer@example.com", Password: "old-password-1", FirstName: "Pat", LastName: "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	identity := types.Identity{UserID: registered.User.ID, Email: registered.User.Email, Role: enums.RoleUser}

	err = svc.ChangePassword(ctx, identity, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-1",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION for wrong current password, got %v", err)
	}

	err = svc.ChangePassword(ctx, identity, ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-1",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "old-password-1"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "new-password-1"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
