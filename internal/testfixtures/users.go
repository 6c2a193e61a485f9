package testfixtures

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
)

// UserStore is an in-memory auth.StoreAPI enforcing the same uniqueness
// rules as the users table.
type UserStore struct {
	mu    sync.Mutex
	clock *Clock
	users map[string]auth.User
}

func NewUserStore(clock *Clock) *UserStore {
	return &UserStore{clock: clock, users: map[string]auth.User{}}
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return auth.User{}, apperr.NotFound("user")
}

func (s *UserStore) GetByID(_ context.Context, id string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return auth.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (s *UserStore) Create(_ context.Context, user auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return auth.User{}, apperr.Conflict("User with this email already exists")
		}
		if user.EmployeeID != nil && u.EmployeeID != nil && *u.EmployeeID == *user.EmployeeID {
			return auth.User{}, apperr.Conflict("Employee already has a user account")
		}
	}
	now := s.clock.Tick()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

func (s *UserStore) EmployeeLinked(_ context.Context, employeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) UpdateLastLogin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	now := s.clock.Now()
	u.LastLogin = &now
	s.users[id] = u
	return nil
}

// SetActive flips the account flag, as an administrator would in the database.
func (s *UserStore) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.IsActive = active
		s.users[id] = u
	}
}
