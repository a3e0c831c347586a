package auth

import (
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// dummyHash is compared against for unknown accounts.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("sensorhub-timing-equaliser"), bcrypt.DefaultCost)
	if err != nil {
		panic(stderrors.New("auth: cannot prepare dummy hash"))
	}
	return string(h)
}()

// BurnPasswordCheck performs a comparison whose result is discarded.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
