package address

import (
	"errors"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) Add(userID int, a Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}
	a.UserID = userID
	now := time.Now().UTC().Format(time.RFC3339)
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.repo.Create(a)
}

func (s *Service) Update(userID, addressID int, a Address) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	if err := validate(a); err != nil {
		return Address{}, err
	}
	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(userID, addressID, a)
}

func (s *Service) Delete(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(userID, addressID)
}

// validate mirrors the checkout shipping rules so a saved address can be
// used at checkout without further edits.
func validate(a Address) error {
	switch {
	case a.FullName == "", a.Address == "", a.City == "", a.State == "", a.ZipCode == "", a.Country == "":
		return errors.New("all address fields are required")
	case len(a.Phone) < 10:
		return errors.New("phone must be at least 10 characters")
	}
	return nil
}
