package auth

import "time"

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	EmployeeID   *string    `json:"employeeId"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u User) Principal() Principal {
	p := Principal{UserID: u.ID, Role: u.Role}
	if u.EmployeeID != nil {
		p.EmployeeID = *u.EmployeeID
	}
	return p
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

const minPasswordLength = 6

const (
	msgInvalidCredentials = "Invalid credentials"
	msgAccountInactive    = "Account is deactivated"
	msgEmailTaken         = "User with this email already exists"
	msgEmployeeLinked     = "Employee already has a user account"
)
