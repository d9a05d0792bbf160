package enums

import "testing"

func TestOrderStatusParseRoundTrip(t *testing.T) {
	for _, status := range validOrderStatuses {
		parsed, err := ParseOrderStatus(status.String())
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", status, err)
		}
		if parsed != status {
			t.Fatalf("ParseOrderStatus(%q) = %q", status, parsed)
		}
	}
	if _, err := ParseOrderStatus("Returned"); err == nil {
		t.Fatal("expected unknown status to fail parsing")
	}
	if _, err := ParseOrderStatus("order placed"); err == nil {
		t.Fatal("expected case-sensitive parsing to reject lowercase input")
	}
}

func TestOrderStatusCancelable(t *testing.T) {
	cases := map[OrderStatus]bool{
		OrderStatusPlaced:    true,
		OrderStatusShipped:   false,
		OrderStatusInTransit: false,
		OrderStatusDelivered: false,
		OrderStatusCompleted: false,
		OrderStatusCanceled:  false,
	}
	for status, want := range cases {
		if got := status.Cancelable(); got != want {
			t.Fatalf("%q.Cancelable() = %v, want %v", status, got, want)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	cases := map[OrderStatus]bool{
		OrderStatusPlaced:    false,
		OrderStatusShipped:   false,
		OrderStatusInTransit: false,
		OrderStatusDelivered: true,
		OrderStatusCompleted: true,
		OrderStatusCanceled:  true,
	}
	for status, want := range cases {
		if got := status.Terminal(); got != want {
			t.Fatalf("%q.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestCartOperationValidation(t *testing.T) {
	for _, op := range validCartOperations {
		if !op.IsValid() {
			t.Fatalf("expected %q to be valid", op)
		}
	}
	if CartOperation("bump").IsValid() {
		t.Fatal("expected unknown operation to be invalid")
	}
	if _, err := ParseCartOperation("delete"); err != nil {
		t.Fatalf("ParseCartOperation(delete) returned error: %v", err)
	}
}

func TestRoleValidation(t *testing.T) {
	for _, role := range validRoles {
		if !role.IsValid() {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected unknown role to fail parsing")
	}
}
