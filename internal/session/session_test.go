package session

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	cred, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cred == "" {
		t.Fatal("expected a credential")
	}

	userID, err := issuer.Verify(cred)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), -time.Minute)

	cred, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(cred); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("err = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)
	other := NewIssuer([]byte("other-secret"), time.Hour)

	cred, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(cred); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("err = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	for _, cred := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(cred); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidCredential", cred, err)
		}
	}
}

func TestNewIssuerDefaultTTL(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), 0)
	if issuer.TTL() != DefaultTTL {
		t.Errorf("ttl = %v, want %v", issuer.TTL(), DefaultTTL)
	}
}
