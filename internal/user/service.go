package user

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

// ServiceInterface is what other packages (checkout, loyalty wiring) depend on.
type ServiceInterface interface {
	List() []User
	GetByID(id int) (User, error)
	GetByUsername(username string) (User, error)
	Register(u User) (User, error)
	Authenticate(username, password string) (User, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []User {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByUsername(username string) (User, error) {
	return s.repo.GetByUsername(username)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByUsername(u.Username); err == nil {
		return User{}, ErrUserExists
	} else if err != ErrNotFound {
		return User{}, err
	}
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrUserExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return s.repo.Create(u)
}

func (s *Service) Authenticate(username, password string) (User, error) {
	u, err := s.repo.GetByUsername(username)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

var _ ServiceInterface = (*Service)(nil)
