package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// MinSigningSecretLength is the advisory lower bound for the signing
// secret, in bytes.
const MinSigningSecretLength = 32

// SecretPolicy decides what happens when the configured signing secret is
// shorter than MinSigningSecretLength.
type SecretPolicy string

const (
	// SecretPolicyWarn logs a warning and keeps going. Default, matches
	// the long-observed behavior of the service.
	SecretPolicyWarn SecretPolicy = "warn"
	// SecretPolicyStrict refuses to start with a short secret.
	SecretPolicyStrict SecretPolicy = "strict"
)

// rejection is the closed set of reasons the token path can fail. It stays
// internal: the boundary contract is a plain bool/absent value.
type rejection int

const (
	rejectionNone rejection = iota
	rejectionEmpty
	rejectionSignature
	rejectionExpired
	rejectionMalformed
	rejectionUnsupported
)

// HSTokenProvider signs and verifies HS256 tokens with a process-wide
// symmetric key. The key is set once at construction and safe for
// concurrent reads; there is no mutation path after startup.
type HSTokenProvider struct {
	signingKey []byte
	ttl        time.Duration
	logger     Logger
}

var _ TokenProvider = (*HSTokenProvider)(nil)

// NewTokenProvider builds the provider from the deployment secret and the
// validity window in milliseconds. An unusable secret is fatal here, not
// per request.
func NewTokenProvider(secret string, ttlMillis int64, policy SecretPolicy, logger Logger) (*HSTokenProvider, error) {
	if logger == nil {
		logger = defLogger{}
	}

	if secret == "" {
		return nil, goerrors.New("token signing secret must not be empty", goerrors.CategoryInternal)
	}

	if len(secret) < MinSigningSecretLength {
		if policy == SecretPolicyStrict {
			return nil, goerrors.New(
				fmt.Sprintf("token signing secret is %d bytes, need at least %d", len(secret), MinSigningSecretLength),
				goerrors.CategoryInternal,
			)
		}
		logger.Warn("token signing secret is shorter than %d bytes, consider rotating it", MinSigningSecretLength)
	}

	if ttlMillis <= 0 {
		return nil, goerrors.New("token expiration must be positive", goerrors.CategoryInternal)
	}

	return &HSTokenProvider{
		signingKey: []byte(secret),
		ttl:        time.Duration(ttlMillis) * time.Millisecond,
		logger:     logger,
	}, nil
}

// Generate builds and signs the claims for a user snapshot.
func (p *HSTokenProvider) Generate(user *User) (string, error) {
	if user == nil {
		return "", goerrors.New("user must not be nil", goerrors.CategoryInternal)
	}

	claims := newTokenClaims(user, p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(p.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Validate reports whether the token parses, carries a good signature, and
// has not expired. Every distinct failure is logged here and collapsed to
// false for the caller.
func (p *HSTokenProvider) Validate(token string) bool {
	_, why := p.check(token)
	switch why {
	case rejectionNone:
		return true
	case rejectionEmpty:
		p.logger.Debug("token validation failed: empty token")
	case rejectionSignature:
		p.logger.Error("token validation failed: bad signature")
	case rejectionExpired:
		p.logger.Info("token validation failed: token expired")
	case rejectionUnsupported:
		p.logger.Error("token validation failed: unsupported token")
	default:
		p.logger.Error("token validation failed: malformed token")
	}
	return false
}

// UserIDFromToken returns the numeric user id from the subject claim, or
// false when the token fails verification for any reason.
func (p *HSTokenProvider) UserIDFromToken(token string) (int64, bool) {
	claims, why := p.check(token)
	if why != rejectionNone {
		return 0, false
	}

	id, err := strconv.ParseInt(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		p.logger.Warn("token subject is not a numeric id: %v", err)
		return 0, false
	}

	return id, true
}

// UsernameFromToken returns the username claim under the same contract.
func (p *HSTokenProvider) UsernameFromToken(token string) (string, bool) {
	claims, why := p.check(token)
	if why != rejectionNone || claims.Username == "" {
		return "", false
	}
	return claims.Username, true
}

// check parses and verifies the token, classifying any failure into the
// closed rejection set.
func (p *HSTokenProvider) check(token string) (*TokenClaims, rejection) {
	if token == "" {
		return nil, rejectionEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.signingKey, nil
	})

	if err != nil {
		switch {
		case goerrors.Is(err, jwt.ErrTokenExpired):
			return nil, rejectionExpired
		case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, rejectionSignature
		case goerrors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, rejectionUnsupported
		default:
			return nil, rejectionMalformed
		}
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, rejectionMalformed
	}

	return claims, rejectionNone
}
