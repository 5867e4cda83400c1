package token

import (
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Sub     string `json:"sub"` // this is the email
	Company string `json:"company"`
	jwt.RegisteredClaims
}
