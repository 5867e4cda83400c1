// Package csrf implements the double-submit pair: a token and a cookie that
// verify as a pair without any server-side state. Both blobs seal the same
// random proof under AES-GCM with the process-wide key; the cookie additionally
// carries the expiry of the validity window.
package csrf

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"time"
)

const (
	proofSize  = 64
	expirySize = 8
)

// GeneratePair derives a linked (token, cookie) pair valid for ttl. The cookie
// plaintext is be64(expiry) || proof, the token plaintext is the proof alone,
// so neither blob reveals the other.
func GeneratePair(key []byte, ttl time.Duration) (token []byte, cookie []byte, err error) {
	proof := make([]byte, proofSize)
	if _, err := rand.Read(proof); err != nil {
		return nil, nil, err
	}

	expiry := time.Now().Add(ttl).Unix()
	cookiePlain := make([]byte, expirySize+proofSize)
	binary.BigEndian.PutUint64(cookiePlain[:expirySize], uint64(expiry))
	copy(cookiePlain[expirySize:], proof)

	token, err = seal(key, proof)
	if err != nil {
		return nil, nil, err
	}
	cookie, err = seal(key, cookiePlain)
	if err != nil {
		return nil, nil, err
	}
	return token, cookie, nil
}

// VerifyPair reports whether token and cookie were produced together and the
// embedded window has not elapsed. Garbled, truncated or forged input of any
// kind is a plain false, never an error or a panic.
func VerifyPair(key, token, cookie []byte) bool {
	proof, ok := open(key, token)
	if !ok || len(proof) != proofSize {
		return false
	}
	cookiePlain, ok := open(key, cookie)
	if !ok || len(cookiePlain) != expirySize+proofSize {
		return false
	}

	expiry := int64(binary.BigEndian.Uint64(cookiePlain[:expirySize]))
	if time.Now().Unix() >= expiry {
		return false
	}
	return subtle.ConstantTimeCompare(proof, cookiePlain[expirySize:]) == 1
}

func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	// nonce is prepended so the blob is self-contained
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

func open(key, blob []byte) ([]byte, bool) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, false
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, false
	}
	if len(blob) < aesgcm.NonceSize() {
		return nil, false
	}

	plaintext, err := aesgcm.Open(nil, blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():], nil)
	if err != nil {
		return nil, false
	}
	return plaintext, true
}
