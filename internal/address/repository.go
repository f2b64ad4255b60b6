package address

import "errors"

var ErrNotFound = errors.New("address not found")

type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	AddAddress(a Address) (Address, error)
	UpdateAddress(userID int, addressID int, a Address) (Address, error)
	DeleteAddress(userID int, addressID int) error
}
