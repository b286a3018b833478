package product

import "errors"

var ErrNotOwner = errors.New("product belongs to another farmer")

// ServiceInterface is what other packages (cart, order) depend on.
type ServiceInterface interface {
	List(category string) []Product
	ListByFarmer(farmerID int) []Product
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(farmerID, id int, p Product) (Product, error)
	Delete(farmerID, id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List(category string) []Product {
	return s.repo.List(category)
}

func (s *Service) ListByFarmer(farmerID int) []Product {
	return s.repo.ListByFarmer(farmerID)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.FarmerID <= 0 {
		return Product{}, errors.New("invalid farmer")
	}
	if p.Name == "" {
		return Product{}, errors.New("name is required")
	}
	if p.Price.Sign() <= 0 {
		return Product{}, errors.New("price must be positive")
	}
	if !ValidCategory(p.Category) {
		return Product{}, errors.New("unknown category")
	}
	return s.repo.Create(p)
}

// Update rejects writes against products the farmer does not own.
func (s *Service) Update(farmerID, id int, p Product) (Product, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	if current.FarmerID != farmerID {
		return Product{}, ErrNotOwner
	}
	if p.Price.Sign() <= 0 {
		return Product{}, errors.New("price must be positive")
	}
	if !ValidCategory(p.Category) {
		return Product{}, errors.New("unknown category")
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(farmerID, id int) error {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if current.FarmerID != farmerID {
		return ErrNotOwner
	}
	return s.repo.Delete(id)
}
