package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular shopper account
	RoleUser UserRole = "USER"
	// RoleAdmin is a platform administrator
	RoleAdmin UserRole = "ADMIN"
)

// Authority strings granted to a principal. The mapping from role to
// authority is fixed here; nothing builds these at runtime.
const (
	AuthorityUser  = "ROLE_USER"
	AuthorityAdmin = "ROLE_ADMIN"
)

var roleAuthorities = map[UserRole]string{
	RoleUser:  AuthorityUser,
	RoleAdmin: AuthorityAdmin,
}

// AuthorityForRole returns the single authority granted by a role.
func AuthorityForRole(role UserRole) (string, bool) {
	authority, ok := roleAuthorities[role]
	return authority, ok
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// UserResponse is the public-safe shape of a user record. It never carries
// the password hash.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Phone     string     `json:"phone_number,omitempty"`
	Role      UserRole   `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Public maps the record to its public-safe shape.
func (u *User) Public() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResult is what a successful login returns to the API layer.
type AuthResult struct {
	Token     string `json:"token"`
	TokenType string `json:"type"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
}
