package enums

import "fmt"

// CartOperation names a single mutation applied to a cart line.
type CartOperation string

const (
	CartOperationIncrease CartOperation = "increase"
	CartOperationDecrease CartOperation = "decrease"
	CartOperationDelete   CartOperation = "delete"
)

var validCartOperations = []CartOperation{
	CartOperationIncrease,
	CartOperationDecrease,
	CartOperationDelete,
}

// String implements fmt.Stringer.
func (o CartOperation) String() string {
	return string(o)
}

// IsValid reports whether the value is a known CartOperation.
func (o CartOperation) IsValid() bool {
	for _, candidate := range validCartOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseCartOperation converts raw input into a CartOperation.
func ParseCartOperation(value string) (CartOperation, error) {
	for _, candidate := range validCartOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart operation %q", value)
}
