package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidDeliveryOption = errors.New("unknown delivery option")
	ErrPaymentNotCompleted   = errors.New("payment was not completed")
	ErrNoPendingCheckout     = errors.New("no pending checkout")
)

// OutOfStockError means a line asked for more units than the catalog has.
type OutOfStockError struct {
	ProductID int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d has insufficient stock", e.ProductID)
}

// ProductGoneError means a cart line's product was removed from the catalog
// between add-to-cart and checkout.
type ProductGoneError struct {
	ProductID int
}

func (e *ProductGoneError) Error() string {
	return fmt.Sprintf("product %d no longer exists", e.ProductID)
}

// PlacementError wraps an unexpected persistence failure during commit. The
// whole transaction has already been rolled back when it surfaces.
type PlacementError struct {
	Err error
}

func (e *PlacementError) Error() string {
	return "order placement failed: " + e.Err.Error()
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}
