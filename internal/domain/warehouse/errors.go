package warehouse

import "fmt"

// Error codes used by the warehouse domain.
const (
	ErrCodeDuplicatePartner    = "DUPLICATE_PARTNER"
	ErrCodeUnknownPartner      = "UNKNOWN_PARTNER"
	ErrCodeUnknownProduct      = "UNKNOWN_PRODUCT"
	ErrCodeUnknownComponent    = "UNKNOWN_COMPONENT"
	ErrCodeUnknownTransaction  = "UNKNOWN_TRANSACTION"
	ErrCodeUnavailableQuantity = "UNAVAILABLE_QUANTITY"
	ErrCodeInvalidOffset       = "INVALID_OFFSET"
)

// DuplicatePartnerError is returned when registering a partner whose
// identifier is already taken (case-insensitively).
type DuplicatePartnerError struct {
	ID string
}

func (e *DuplicatePartnerError) Error() string {
	return fmt.Sprintf("partner %q is already registered", e.ID)
}

// UnknownPartnerError is returned when a partner lookup misses.
type UnknownPartnerError struct {
	ID string
}

func (e *UnknownPartnerError) Error() string {
	return fmt.Sprintf("unknown partner %q", e.ID)
}

// UnknownProductError is returned when a product lookup misses.
type UnknownProductError struct {
	ID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.ID)
}

// UnknownComponentError is returned when an aggregate product references a
// component that is not in the catalog at registration time.
type UnknownComponentError struct {
	ID string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown recipe component %q", e.ID)
}

// UnknownTransactionError is returned when a transaction lookup misses.
type UnknownTransactionError struct {
	ID int
}

func (e *UnknownTransactionError) Error() string {
	return fmt.Sprintf("unknown transaction %d", e.ID)
}

// UnavailableQuantityError is returned when an allocation asks for more
// stock than a product currently holds.
type UnavailableQuantityError struct {
	ProductID string
	Requested int
	Available int
}

func (e *UnavailableQuantityError) Error() string {
	return fmt.Sprintf("product %q: requested %d units, only %d available", e.ProductID, e.Requested, e.Available)
}

// InvalidOffsetError is returned when the clock is asked to advance by a
// non-positive number of days.
type InvalidOffsetError struct {
	Offset int
}

func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("invalid date offset %d: must be positive", e.Offset)
}
