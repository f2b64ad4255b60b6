package product

type Service struct {
	repo Repository
}

// ServiceInterface lets other packages depend on products without pulling in
// the concrete service.
type ServiceInterface interface {
	List() []Product
	ListByCategory(category string) []Product
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) ListByCategory(category string) []Product {
	return s.repo.ListByCategory(category)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

var _ ServiceInterface = (*Service)(nil)
