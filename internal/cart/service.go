package cart

import (
	"errors"

	"github.com/saraswati-stationery/stationery-backend/internal/product"
)

var (
	ErrProductUnknown = errors.New("product does not exist")
	ErrBadQuantity    = errors.New("quantity must be positive")
)

// Service orchestrates cart operations. It needs the catalog to snapshot the
// current price when a product is first added.
type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) AddToCart(userID int, productID int, qty int) ([]Line, error) {
	if qty <= 0 {
		return nil, ErrBadQuantity
	}
	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, ErrProductUnknown
	}
	return s.repo.Add(userID, Line{ProductID: productID, Quantity: qty, UnitPrice: p.Price})
}

func (s *Service) SetQuantity(userID int, productID int, qty int) ([]Line, error) {
	if qty < 0 {
		return nil, ErrBadQuantity
	}
	return s.repo.SetQuantity(userID, productID, qty)
}

func (s *Service) Remove(userID int, productID int) ([]Line, error) {
	return s.repo.Remove(userID, productID)
}

func (s *Service) GetCart(userID int) ([]Line, error) {
	return s.repo.List(userID)
}

// ClearCart empties a user's cart outside of any checkout transaction.
func (s *Service) ClearCart(userID int) error {
	return s.repo.Clear(nil, userID)
}
