package address

import (
	"errors"
	"time"
)

var ErrMissingFields = errors.New("fullName, street and city are required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAddresses(userID int) ([]Address, error) {
	return s.repo.GetAddresses(userID)
}

func (s *Service) AddAddress(userID int, a Address) (Address, error) {
	if a.FullName == "" || a.Street == "" || a.City == "" {
		return Address{}, ErrMissingFields
	}
	now := time.Now().UTC().Format(time.RFC3339)
	a.UserID = userID
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.repo.AddAddress(a)
}

func (s *Service) UpdateAddress(userID int, addressID int, a Address) (Address, error) {
	if a.FullName == "" || a.Street == "" || a.City == "" {
		return Address{}, ErrMissingFields
	}
	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.UpdateAddress(userID, addressID, a)
}

func (s *Service) DeleteAddress(userID int, addressID int) error {
	return s.repo.DeleteAddress(userID, addressID)
}
