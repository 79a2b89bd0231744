package credentials

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHash_VerifyRoundTrip(t *testing.T) {
	h, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h == "secret1" {
		t.Fatal("hash must not equal the plain text")
	}
	if !Verify("secret1", h) {
		t.Error("expected Verify to accept the original password")
	}
	if Verify("secret2", h) {
		t.Error("expected Verify to reject a different password")
	}
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	h, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil {
		t.Fatalf("bcrypt.Cost failed: %v", err)
	}
	if cost != Cost {
		t.Errorf("cost: got %d, want %d", cost, Cost)
	}
}

func TestHash_Salted(t *testing.T) {
	a, _ := Hash("secret1")
	b, _ := Hash("secret1")
	if a == b {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestHash_TooLong(t *testing.T) {
	if _, err := Hash(strings.Repeat("x", 100)); err == nil {
		t.Error("expected error for password over 72 bytes")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	if Verify("secret1", "") {
		t.Error("empty hash must not verify")
	}
	if Verify("secret1", "not-a-bcrypt-hash") {
		t.Error("malformed hash must not verify")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", true},
		{"12345", true},
		{"123456", false},
		{"a much longer password", false},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
