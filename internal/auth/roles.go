package auth

import (
	"strings"
	"time"

	"github.com/vieclam/jobportal/internal/domain/models"
)

type Destination string

const (
	DestinationLogin     Destination = "login"
	DestinationAdmin     Destination = "admin"
	DestinationEmployer  Destination = "employer"
	DestinationJobSeeker Destination = "jobseeker"
)

func HomeFor(role models.Role) Destination {
	switch {
	case strings.EqualFold(string(role), string(models.RoleAdmin)):
		return DestinationAdmin
	case strings.EqualFold(string(role), string(models.RoleEmployer)):
		return DestinationEmployer
	case strings.EqualFold(string(role), string(models.RoleJobSeeker)):
		return DestinationJobSeeker
	default:
		return DestinationLogin
	}
}

// HomeForToken decodes the token and routes by its role; broken or expired
// tokens land on the login destination.
func HomeForToken(token string, now func() time.Time) Destination {
	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(now()) {
		return DestinationLogin
	}
	return HomeFor(claims.Role)
}
