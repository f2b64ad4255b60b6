package order

import (
	"time"
)

// Service provides order queries and the admin-side status workflow.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

// GetForUser returns an order only if it belongs to the given user.
func (s *Service) GetForUser(userID int, orderID int) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// UpdateStatus enforces forward-only transitions.
func (s *Service) UpdateStatus(id int, status string) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(ord.Status, status) {
		return Order{}, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(id)
}

// UpdateTracking applies dispatcher edits. Confirming delivery stamps
// delivered_at the first time it happens.
func (s *Service) UpdateTracking(id int, upd TrackingUpdate) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}

	var deliveredAt *string
	if upd.DeliveryConfirmed != nil && *upd.DeliveryConfirmed && ord.DeliveredAt == nil {
		now := time.Now().UTC().Format(time.RFC3339)
		deliveredAt = &now
	}

	if err := s.repo.UpdateTracking(id, upd, deliveredAt); err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(id)
}
