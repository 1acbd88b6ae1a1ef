package test

import (
	"errors"

	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// CredentialsStub accepts a single user/password pair.
type CredentialsStub struct {
	User     string
	Password string
}

// Authenticate compares the supplied credentials with the configured pair.
func (s CredentialsStub) Authenticate(user, password string) error {
	if s.User == "" || user != s.User || password != s.Password {
		return pkgAuth.ErrInvalidCredentials
	}
	return nil
}

// SignatureVerifierStub returns the configured error for every header.
type SignatureVerifierStub struct {
	Err error
}

// Verify returns the configured error.
func (s SignatureVerifierStub) Verify(header, dataID, requestID string) error {
	return s.Err
}

var _ pkgAuth.PasswordHasher = HasherStub{}
