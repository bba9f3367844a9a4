package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/domain/models"
)

var ErrMalformedToken = errors.New("malformed token")

const (
	dotnetNameIdentifierClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	dotnetRoleClaim           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

var (
	userIDClaims = []string{"sub", "nameid", "userId", dotnetNameIdentifierClaim}
	roleClaims   = []string{"role", dotnetRoleClaim}
)

type Claims struct {
	UserID    string
	Role      models.Role
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// UserIDInt returns the numeric user id or 0 when the id is not a number.
func (c Claims) UserIDInt() int {
	id, err := strconv.Atoi(c.UserID)
	if err != nil {
		return 0
	}
	return id
}

// DecodeClaims reads the payload of a bearer token without verifying its
// signature. The backend enforces authorization; the result only drives routing.
func DecodeClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(ErrMalformedToken, err.Error())
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	claims := &Claims{
		UserID: firstClaim(mapClaims, userIDClaims),
		Role:   models.Role(firstClaim(mapClaims, roleClaims)),
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" && claims.Role == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

func firstClaim(claims jwt.MapClaims, keys []string) string {
	for _, key := range keys {
		switch value := claims[key].(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatInt(int64(value), 10)
		case []any:
			// several roles: the first one decides the landing page
			if len(value) > 0 {
				if s, ok := value[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}
