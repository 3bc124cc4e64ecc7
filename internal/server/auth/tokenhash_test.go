package auth

import "testing"

func TestHashToken(t *testing.T) {
	h1 := HashToken("token-a")
	h2 := HashToken("token-a")
	h3 := HashToken("token-b")

	if h1 != h2 {
		t.Fatal("digest must be deterministic")
	}
	if h1 == h3 {
		t.Fatal("different tokens must not collide")
	}
	if len(h1) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(h1))
	}
	if h1 == "token-a" {
		t.Fatal("digest must not equal the raw token")
	}
}
