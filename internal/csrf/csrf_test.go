package csrf

import (
	"bytes"
	"testing"
	"time"
)

var testKey = []byte("01234567012345670123456701234567")

func TestGenerateAndVerifyPair(t *testing.T) {
	t.Parallel()

	token, cookie, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}
	if bytes.Equal(token, cookie) {
		t.Fatalf("token and cookie must not be identical blobs")
	}
	if !VerifyPair(testKey, token, cookie) {
		t.Fatalf("expected pair to verify")
	}
}

func TestVerifyPair_SwappedAcrossPairs(t *testing.T) {
	t.Parallel()

	token1, cookie1, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}
	token2, cookie2, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	if VerifyPair(testKey, token1, cookie2) {
		t.Fatalf("token from one pair must not verify against cookie from another")
	}
	if VerifyPair(testKey, token2, cookie1) {
		t.Fatalf("token from one pair must not verify against cookie from another")
	}
}

func TestVerifyPair_GarbledInput(t *testing.T) {
	t.Parallel()

	token, cookie, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	cases := [][2][]byte{
		{nil, nil},
		{[]byte("garbage"), []byte("garbage")},
		{token, nil},
		{nil, cookie},
		{token[:3], cookie},
		{token, cookie[:3]},
	}
	for i, c := range cases {
		// must return false, never panic
		if VerifyPair(testKey, c[0], c[1]) {
			t.Fatalf("case %d: garbled input verified", i)
		}
	}
}

func TestVerifyPair_TamperedBlob(t *testing.T) {
	t.Parallel()

	token, cookie, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	tamperedToken := append([]byte(nil), token...)
	tamperedToken[len(tamperedToken)-1] ^= 0x01
	if VerifyPair(testKey, tamperedToken, cookie) {
		t.Fatalf("tampered token verified")
	}

	tamperedCookie := append([]byte(nil), cookie...)
	tamperedCookie[len(tamperedCookie)-1] ^= 0x01
	if VerifyPair(testKey, token, tamperedCookie) {
		t.Fatalf("tampered cookie verified")
	}
}

func TestVerifyPair_ExpiredWindow(t *testing.T) {
	t.Parallel()

	token, cookie, err := GeneratePair(testKey, -1*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}
	if VerifyPair(testKey, token, cookie) {
		t.Fatalf("pair with an elapsed window verified")
	}
}

func TestVerifyPair_WrongKey(t *testing.T) {
	t.Parallel()

	token, cookie, err := GeneratePair(testKey, 300*time.Second)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	otherKey := []byte("76543210765432107654321076543210")
	if VerifyPair(otherKey, token, cookie) {
		t.Fatalf("pair verified under a different key")
	}
}

func TestGeneratePair_BadKeyLength(t *testing.T) {
	t.Parallel()

	if _, _, err := GeneratePair([]byte("short"), 300*time.Second); err == nil {
		t.Fatalf("expected error for invalid key length")
	}
}
