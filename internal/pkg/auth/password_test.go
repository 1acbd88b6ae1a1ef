package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(0)
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestNewBcryptHasher_CustomCost(t *testing.T) {
	cost := bcrypt.DefaultCost + 2
	hasher := NewBcryptHasher(cost)
	if hasher.cost != cost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.DefaultCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if err := hasher.Compare(hash, "secret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatal("expected compare error for wrong password")
	}
}

func TestBcryptHasher_HashError(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}
}

func TestAdminAuthenticator(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("plain password is hashed", func(t *testing.T) {
		a, err := NewAdminAuthenticator("admin", "s3cret", "", hasher)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.hash == "" || a.hash == "s3cret" {
			t.Fatalf("expected bcrypt hash, got %q", a.hash)
		}
		if err := a.Authenticate("admin", "s3cret"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if err := a.Authenticate("admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
		if err := a.Authenticate("root", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("stored hash preferred", func(t *testing.T) {
		hash, err := hasher.Hash("from-hash")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		a, err := NewAdminAuthenticator("admin", "plain", hash, hasher)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := a.Authenticate("admin", "from-hash"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if err := a.Authenticate("admin", "plain"); err == nil {
			t.Fatal("expected plain password to be ignored")
		}
	})

	t.Run("unconfigured rejects", func(t *testing.T) {
		a, err := NewAdminAuthenticator("", "", "", hasher)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Enabled() {
			t.Fatal("expected disabled authenticator")
		}
		if err := a.Authenticate("", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("hash failure", func(t *testing.T) {
		if _, err := NewAdminAuthenticator("admin", "pw", "", &BcryptHasher{cost: bcrypt.MaxCost + 1}); err == nil {
			t.Fatal("expected hash error")
		}
	})
}
