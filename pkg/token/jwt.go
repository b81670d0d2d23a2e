package tokenstore

import (
	"errors"
	"strconv"
	"time"

	"ChatBuddy/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// Issue signs an HS256 token for userID valid for TOKEN_TTL_HOURS.
func Issue(userID uint) (string, *Claims, error) {
	c := &Claims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(config.TokenTTLHours) * time.Hour),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": c.ExpiresAt.Unix(),
		"iat": time.Now().Unix(),
		"jti": c.JTI,
	})
	s, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return "", nil, err
	}
	return s, c, nil
}

// Parse verifies signature and expiry. Revocation is checked separately.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	var userID uint64
	switch sub := claims["sub"].(type) {
	case string:
		userID, err = strconv.ParseUint(sub, 10, 64)
	case float64:
		// jwt lib may parse numeric as float64
		userID = uint64(sub)
	default:
		err = ErrInvalidToken
	}
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	c := &Claims{UserID: uint(userID)}
	c.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
