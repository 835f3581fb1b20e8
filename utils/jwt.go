package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mayank2130/user-leagues/config"
)

// Claims defines the app session token issued after the platform
// access check succeeds. Subsequent API calls carry this instead of
// re-verifying against the platform on every request.
type Claims struct {
	MemberID    uint   `json:"member_id"`
	CommunityID uint   `json:"community_id"`
	WhopUserID  string `json:"whop_user_id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session JWT for the specified member.
func GenerateToken(memberID, communityID uint, whopUserID, role string, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		MemberID:    memberID,
		CommunityID: communityID,
		WhopUserID:  whopUserID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	return parseHMAC(tokenStr, config.Get().JWTSecret)
}

// PlatformClaims is the minimal payload of a platform-issued user
// token: the platform user id in the subject.
type PlatformClaims struct {
	jwt.RegisteredClaims
}

// VerifyPlatformToken validates the user token the platform attaches
// to embedded app requests and returns the platform user id.
func VerifyPlatformToken(tokenStr string) (string, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &PlatformClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.PlatformTokenSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*PlatformClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid platform token")
	}
	return claims.Subject, nil
}

func parseHMAC(tokenStr, secret string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
