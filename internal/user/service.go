package user

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface lets other packages depend on user behaviour without
// the concrete service (handlers in tests swap in dummies).
type ServiceInterface interface {
	List() []User
	GetByID(id int) (User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
	Update(id int, u User) (User, error)
	Delete(id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List() []User {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	if u.Role == "" {
		u.Role = RoleBuyer
	}

	if u.Password != "" && !looksLikeBcrypt(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.Password = string(hashed)
	}

	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Update(id int, u User) (User, error) {
	if u.Password != "" && !looksLikeBcrypt(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.Password = string(hashed)
	}
	return s.repo.Update(id, u)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func looksLikeBcrypt(pw string) bool {
	return strings.HasPrefix(pw, "$2a$") || strings.HasPrefix(pw, "$2b$") || strings.HasPrefix(pw, "$2y$")
}
