package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tvillarrealb/shopstack-backend/api/middleware"
	cartsvc "github.com/tvillarrealb/shopstack-backend/internal/cart"
	pkgAuth "github.com/tvillarrealb/shopstack-backend/pkg/auth"
	"github.com/tvillarrealb/shopstack-backend/pkg/config"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	pkgerrors "github.com/tvillarrealb/shopstack-backend/pkg/errors"
	"github.com/tvillarrealb/shopstack-backend/pkg/types"
)

type stubCartService struct {
	addItemFn func(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*cartsvc.CartView, error)
	getCartFn func(ctx context.Context, user types.Identity) (*cartsvc.CartView, error)
}

func (s *stubCartService) AddItem(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*cartsvc.CartView, error) {
	return s.addItemFn(ctx, user, productID, qty)
}

func (s *stubCartService) AddQuantity(ctx context.Context, user types.Identity, productID uuid.UUID, qty int) (*cartsvc.CartView, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCartService) ApplyOperation(ctx context.Context, user types.Identity, productID uuid.UUID, op enums.CartOperation) (*cartsvc.OperationResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCartService) GetCart(ctx context.Context, user types.Identity) (*cartsvc.CartView, error) {
	return s.getCartFn(ctx, user)
}

func (s *stubCartService) RemoveItem(ctx context.Context, user types.Identity, cartID, productID uuid.UUID) (*cartsvc.RemoveResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCartService) DeleteEmptyCart(ctx context.Context, user types.Identity) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	cfg := config.JWTConfig{Secret: "super-secret-key", Issuer: "shopstack", ExpirationMinutes: 60}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "buyer@example.com",
		Role:   enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	// Run the request through the auth middleware so the context carries
	// the identity the controllers expect.
	var seeded *http.Request
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seeded = r
	})
	middleware.Auth(cfg, nil)(capture).ServeHTTP(httptest.NewRecorder(), req)
	if seeded == nil {
		t.Fatal("auth middleware rejected the test token")
	}
	return seeded
}

func TestCartAddItemReturnsView(t *testing.T) {
	productID := uuid.New()
	svc := &stubCartService{
		addItemFn: func(_ context.Context, user types.Identity, gotProduct uuid.UUID, qty int) (*cartsvc.CartView, error) {
			if gotProduct != productID || qty != 2 {
				t.Fatalf("unexpected args: product=%s qty=%d", gotProduct, qty)
			}
			return &cartsvc.CartView{
				ID:         uuid.New(),
				TotalPrice: decimal.NewFromInt(40),
				Items: []cartsvc.CartItemView{{
					ProductID: productID,
					Quantity:  2,
					Price:     decimal.NewFromInt(20),
				}},
			}, nil
		},
	}

	payload, _ := json.Marshal(map[string]any{"product_id": productID, "quantity": 2})
	req := authedRequest(t, http.MethodPost, "/api/v1/cart/items", payload)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	svc := &stubCartService{}

	payload, _ := json.Marshal(map[string]any{"quantity": 0})
	req := authedRequest(t, http.MethodPost, "/api/v1/cart/items", payload)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemMapsStockError(t *testing.T) {
	svc := &stubCartService{
		addItemFn: func(context.Context, types.Identity, uuid.UUID, int) (*cartsvc.CartView, error) {
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product widget is out of stock")
		},
	}

	payload, _ := json.Marshal(map[string]any{"product_id": uuid.New(), "quantity": 1})
	req := authedRequest(t, http.MethodPost, "/api/v1/cart/items", payload)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil)(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeOutOfStock) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestCartGetReturnsEmptyView(t *testing.T) {
	svc := &stubCartService{
		getCartFn: func(context.Context, types.Identity) (*cartsvc.CartView, error) {
			return cartsvc.EmptyCartView(), nil
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	CartGet(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
