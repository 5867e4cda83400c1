package password

import (
	"testing"
)

func TestHashAndVerify_Success(t *testing.T) {
	t.Parallel()

	hashed, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hashed == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}

	ok, err := Verify("correct horse battery staple", hashed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected verification to succeed")
	}
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	hashed, err := Hash("right-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := Verify("wrong-password", hashed)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got: %v", err)
	}
	if ok {
		t.Fatalf("expected verification to fail")
	}
}

func TestVerify_MalformedStoredHash(t *testing.T) {
	t.Parallel()

	ok, err := Verify("anything", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatalf("expected error for malformed stored hash")
	}
	if ok {
		t.Fatalf("malformed hash must never verify")
	}
}

func TestHash_SaltedOutputDiffers(t *testing.T) {
	t.Parallel()

	first, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same input must differ (embedded salt)")
	}
}
