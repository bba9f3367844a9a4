package auth

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type VerificationKind string

const (
	PendingRegistration  VerificationKind = "registration"
	PendingPasswordReset VerificationKind = "password_reset"
)

// PendingVerifications remembers which e-mail is waiting for an OTP code. The
// entries expire on their own, the same way the codes do on the backend.
type PendingVerifications struct {
	cache *gocache.Cache
}

func NewPendingVerifications(ttl time.Duration) *PendingVerifications {
	return &PendingVerifications{cache: gocache.New(ttl, 2*ttl)}
}

func (p *PendingVerifications) Mark(chatID int64, kind VerificationKind, email string) {
	p.cache.SetDefault(pendingKey(chatID, kind), email)
}

func (p *PendingVerifications) Email(chatID int64, kind VerificationKind) (string, bool) {
	value, found := p.cache.Get(pendingKey(chatID, kind))
	if !found {
		return "", false
	}
	return value.(string), true
}

func (p *PendingVerifications) Clear(chatID int64, kind VerificationKind) {
	p.cache.Delete(pendingKey(chatID, kind))
}

func pendingKey(chatID int64, kind VerificationKind) string {
	return strconv.FormatInt(chatID, 10) + ":" + string(kind)
}
