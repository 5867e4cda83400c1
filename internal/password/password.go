package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash runs the plaintext through bcrypt at the default cost. The salt is part
// of the returned string, nothing needs to be stored alongside it.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares the plaintext against a stored bcrypt hash. A mismatch is a
// normal (false, nil) result; only a malformed stored hash is an error.
func Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
