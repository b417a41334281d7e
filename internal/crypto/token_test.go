package crypto

import "testing"

func TestNewSecretKey(t *testing.T) {
	first, err := NewSecretKey()
	if err != nil {
		t.Fatalf("key error: %v", err)
	}
	second, err := NewSecretKey()
	if err != nil {
		t.Fatalf("key error: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("expected distinct non-empty keys")
	}
}

func TestHashToken(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatalf("expected stable hash")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatalf("expected distinct hashes")
	}
}
