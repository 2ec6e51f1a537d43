package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// UserProvider resolves trusted identities into principals after the
// token layer has already verified them.
type UserProvider struct {
	store  Users
	logger Logger
}

var _ PrincipalResolver = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	u.logger = logger
	return u
}

// LoadByID resolves the principal for a user id, the token path.
func (u *UserProvider) LoadByID(ctx context.Context, id int64) (Principal, error) {
	user, err := u.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return principalFromUser(user)
}

// LoadByUsername resolves a principal outside the token path, for flows
// that start from raw credentials.
func (u *UserProvider) LoadByUsername(ctx context.Context, username string) (Principal, error) {
	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return principalFromUser(user)
}

type userPrincipal struct {
	id           int64
	username     string
	email        string
	passwordHash string
	role         UserRole
	authority    string
}

var _ Principal = userPrincipal{}

func (p userPrincipal) ID() int64            { return p.id }
func (p userPrincipal) Username() string     { return p.username }
func (p userPrincipal) Email() string        { return p.email }
func (p userPrincipal) Role() UserRole       { return p.role }
func (p userPrincipal) Authority() string    { return p.authority }
func (p userPrincipal) PasswordHash() string { return p.passwordHash }

func principalFromUser(user *User) (Principal, error) {
	authority, ok := AuthorityForRole(user.Role)
	if !ok {
		return nil, goerrors.New("user has an unknown or invalid role", goerrors.CategoryAuth).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": user.Role, "user_id": user.ID})
	}

	return userPrincipal{
		id:           user.ID,
		username:     user.Username,
		email:        user.Email,
		passwordHash: user.PasswordHash,
		role:         user.Role,
		authority:    authority,
	}, nil
}
