package auth

import (
	"time"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the acting admin's user id alongside the registered
// JWT claims.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64
}

// GenerateSessionToken mints an HS256-signed session token for the admin UI
// cookie. The API's bearer tokens are opaque database rows; these JWTs exist
// only so the browser session can expire without server-side state.
func GenerateSessionToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromSessionToken validates a session token and returns the user id
// it was minted for.
func GetUserIDFromSessionToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrorInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return 0, err
	}

	if !token.Valid {
		return 0, common.ErrorInvalidToken
	}

	return claims.UserID, nil
}
