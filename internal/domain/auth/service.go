package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"hrdesk/internal/domain/apperr"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type Service struct {
	Store           StoreAPI
	Employees       EmployeeDirectory
	Secret          string
	TTL             time.Duration
	AllowSelfSignup bool
	Now             func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory, secret string, ttl time.Duration, allowSelfSignup bool) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		Store:           store,
		Employees:       employees,
		Secret:          secret,
		TTL:             ttl,
		AllowSelfSignup: allowSelfSignup,
		Now:             time.Now,
	}
}

func (s *Service) SignIn(ctx context.Context, in SignInInput) (Session, error) {
	v := apperr.NewValidator()
	v.Required("email", in.Email, "email is required")
	v.Email("email", in.Email)
	v.Required("password", in.Password, "password is required")
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	user, err := s.Store.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		return Session{}, apperr.Unauthenticated(msgInvalidCredentials)
	}
	if err != nil {
		return Session{}, err
	}
	if CheckPassword(user.PasswordHash, in.Password) != nil {
		return Session{}, apperr.Unauthenticated(msgInvalidCredentials)
	}
	if !user.IsActive {
		return Session{}, apperr.Unauthenticated(msgAccountInactive)
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		return Session{}, err
	}
	now := s.now()
	user.LastLogin = &now
	return s.issue(user)
}

// SignUp creates an account. Admin accounts can only be created by an
// authenticated admin; employee accounts may be self-registered when
// enabled and must link an existing, unlinked Employee.
func (s *Service) SignUp(ctx context.Context, actor *Principal, in SignUpInput) (Session, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleEmployee
	}
	v := apperr.NewValidator()
	v.Required("email", in.Email, "email is required")
	v.Email("email", in.Email)
	if len(in.Password) < minPasswordLength {
		v.Add("password", "must be at least 6 characters")
	}
	v.Enum("role", role, Roles, "must be admin or employee")
	if role == RoleEmployee {
		v.Required("employeeId", in.EmployeeID, "employee id is required for employee accounts")
	}
	v.UUID("employeeId", in.EmployeeID)
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	actorIsAdmin := actor != nil && actor.IsAdmin()
	switch {
	case role == RoleAdmin && !actorIsAdmin:
		return Session{}, Decision{Reason: DenyForbiddenRole}.Err()
	case actor != nil && !actorIsAdmin:
		return Session{}, Decision{Reason: DenyForbiddenRole}.Err()
	case actor == nil && !s.AllowSelfSignup:
		return Session{}, Decision{Reason: DenyForbiddenRole}.Err()
	}

	var employeeID *string
	if in.EmployeeID != "" {
		exists, err := s.Employees.EmployeeExists(ctx, in.EmployeeID)
		if err != nil {
			return Session{}, err
		}
		if !exists {
			return Session{}, apperr.NotFound("employee")
		}
		linked, err := s.Store.EmployeeLinked(ctx, in.EmployeeID)
		if err != nil {
			return Session{}, err
		}
		if linked {
			return Session{}, apperr.Conflict(msgEmployeeLinked)
		}
		id := in.EmployeeID
		employeeID = &id
	}

	if _, err := s.Store.FindByEmail(ctx, strings.TrimSpace(in.Email)); err == nil {
		return Session{}, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Session{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user, err := s.Store.Create(ctx, User{
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   employeeID,
		IsActive:     true,
	})
	if err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, p Principal) (User, error) {
	user, err := s.Store.GetByID(ctx, p.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return User{}, apperr.Unauthenticated("account no longer exists")
	}
	return user, err
}

// ResolvePrincipal reloads the account behind a token so deactivation and
// role changes apply to tokens already issued.
func (s *Service) ResolvePrincipal(ctx context.Context, claims Claims) (Principal, error) {
	user, err := s.Store.GetByID(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Principal{}, apperr.Unauthenticated("account no longer exists")
	}
	if err != nil {
		return Principal{}, err
	}
	if !user.IsActive {
		return Principal{}, apperr.Unauthenticated(msgAccountInactive)
	}
	return user.Principal(), nil
}

func (s *Service) issue(user User) (Session, error) {
	p := user.Principal()
	token, err := GenerateToken(s.Secret, Claims{UserID: p.UserID, Role: p.Role, EmployeeID: p.EmployeeID}, s.TTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: s.now().Add(s.TTL), User: user}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
