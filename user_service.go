package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserRequest carries the validated registration fields.
type RegisterUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number"`
}

// UpdateProfileRequest updates the mutable profile fields. Nil means
// "leave as is"; username, email and role are not updatable here.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone_number"`
}

// UserService is the only place business rules about credentials live.
type UserService struct {
	store  Users
	hasher PasswordAuthenticator
	tokens TokenProvider
	logger Logger
}

// NewUserService returns a service wired with the bcrypt hasher by default.
func NewUserService(store Users, tokens TokenProvider) *UserService {
	return &UserService{
		store:  store,
		hasher: BcryptHasher{},
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *UserService) WithLogger(logger Logger) *UserService {
	s.logger = logger
	return s
}

// WithPasswordAuthenticator overrides the hashing primitive.
func (s *UserService) WithPasswordAuthenticator(hasher PasswordAuthenticator) *UserService {
	s.hasher = hasher
	return s
}

// Register creates a new account. The username existence check runs
// strictly before the email check so that a double collision reports the
// username first.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*User, error) {
	taken, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Info("registration rejected, username %q is taken", req.Username)
		return nil, alreadyExistsError("username", req.Username)
	}

	taken, err = s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Info("registration rejected, email %q is taken", req.Email)
		return nil, alreadyExistsError("email", req.Email)
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         RoleUser,
	}

	saved, err := s.store.Create(ctx, user)
	if err != nil {
		// Two concurrent registrations can both pass the existence checks;
		// the insert race still has to read as a conflict.
		if IsAlreadyExists(err) {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	s.logger.Info("user registered: id=%d username=%s", saved.ID, saved.Username)
	return saved, nil
}

// Authenticate verifies a login identifier and password, and issues a
// token. The identifier is tried as an email first, then as a username,
// exactly as submitted. Unknown identifier and wrong password both come
// back as the same generic failure.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, login)
	if err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		user, err = s.store.FindByUsername(ctx, login)
		if err != nil {
			if IsNotFound(err) {
				s.logger.Info("login failed, identifier %q does not resolve", login)
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Warn("login failed, password mismatch for %q", login)
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "password verification failed")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:     token,
		TokenType: "Bearer",
		UserID:    user.ID,
		Username:  user.Username,
	}, nil
}

// GetProfile returns the user record for a profile read.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateProfile applies the non-nil fields and persists the record.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	return s.store.Update(ctx, user)
}
