package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "correct horse battery staple" {
		t.Fatal("Digest must not equal the plaintext")
	}

	if !hasher.Verify("correct horse battery staple", digest) {
		t.Error("Expected the original password to verify")
	}
	if hasher.Verify("wrong password", digest) {
		t.Error("Expected a wrong password to fail verification")
	}
}
