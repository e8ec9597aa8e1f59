package auth

import "testing"

func TestGenerateActionTokenLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := GenerateActionToken()
		if len(token) != ActionTokenLength {
			t.Fatalf("Expected token of length %d, got %q", ActionTokenLength, token)
		}
		for _, r := range token {
			if r < '0' || r > '9' {
				t.Fatalf("Expected numeric token, got %q", token)
			}
		}
	}
}

func TestGenerateActionTokenVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateActionToken()] = true
	}
	// 50 draws from a million possible codes repeating more than a few
	// times would mean the generator is broken.
	if len(seen) < 40 {
		t.Errorf("Expected mostly distinct tokens, got %d distinct out of 50", len(seen))
	}
}
