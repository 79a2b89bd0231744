package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-secret", 0)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return i
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestIssue_VerifyRoundTrip(t *testing.T) {
	i := newTestIssuer(t)
	tok, err := i.Issue("65f0c0ffee", "business", "Acme")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	c, err := i.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if c.UserID != "65f0c0ffee" || c.UserType != "business" || c.OrganizationName != "Acme" {
		t.Errorf("unexpected claims: %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != DefaultTTL {
		t.Errorf("ttl: got %v, want %v", got, DefaultTTL)
	}
}

func TestVerify_Expired(t *testing.T) {
	i := newTestIssuer(t)
	start := time.Now()
	i.now = func() time.Time { return start }
	tok, err := i.Issue("u1", "individual", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	i.now = func() time.Time { return start.Add(DefaultTTL + time.Minute) }
	if _, err := i.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	i := newTestIssuer(t)
	tok, _ := i.Issue("u1", "individual", "")

	other, _ := NewIssuer("other-secret", 0)
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	i := newTestIssuer(t)
	for _, tok := range []string{"", "abc", "a.b.c", strings.Repeat("x", 50)} {
		if _, err := i.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): got %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	i := newTestIssuer(t)
	claims := Claims{
		UserID:   "u1",
		UserType: "individual",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := i.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("HS512 token: got %v, want ErrInvalidToken", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := i.Verify(none); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg none: got %v, want ErrInvalidToken", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	i := newTestIssuer(t)
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("test-secret"))
	if _, err := i.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}
