package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when admin credentials do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher uses bcrypt to hash passwords.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks password against stored hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AdminAuthenticator checks basic auth credentials of the catalog admin.
// A zero-configured authenticator rejects everyone.
type AdminAuthenticator struct {
	user   string
	hash   string
	hasher PasswordHasher
}

// NewAdminAuthenticator builds an authenticator for user. A stored hash wins
// over a plain password, which is hashed once here.
func NewAdminAuthenticator(user, password, hash string, hasher PasswordHasher) (*AdminAuthenticator, error) {
	a := &AdminAuthenticator{user: user, hash: hash, hasher: hasher}
	if user == "" || a.hash != "" || password == "" {
		return a, nil
	}
	encoded, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	a.hash = encoded
	return a, nil
}

// Enabled reports whether admin credentials are configured.
func (a *AdminAuthenticator) Enabled() bool {
	return a != nil && a.user != "" && a.hash != ""
}

// Authenticate verifies user and password.
func (a *AdminAuthenticator) Authenticate(user, password string) error {
	if !a.Enabled() {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) != 1 {
		return ErrInvalidCredentials
	}
	if err := a.hasher.Compare(a.hash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
