package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the dashboard can tell about the admin token without
// verifying it. Verification belongs to the backend.
type TokenInfo struct {
	Present   bool      `json:"present"`
	JWT       bool      `json:"jwt"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Expired   bool      `json:"expired"`
}

// Inspect decodes token as an unverified JWT when it looks like one.
// Opaque tokens only report Present.
func Inspect(token string, now time.Time) TokenInfo {
	info := TokenInfo{Present: token != ""}
	if token == "" {
		return info
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info
	}
	info.JWT = true
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = now.After(exp.Time)
	}
	return info
}

// Label is the short form shown in status lines.
func (i TokenInfo) Label() string {
	switch {
	case !i.Present:
		return "no token"
	case !i.JWT:
		return "opaque token"
	case i.ExpiresAt.IsZero():
		return "jwt"
	case i.Expired:
		return "jwt expired " + i.ExpiresAt.Format(time.RFC3339)
	default:
		return "jwt until " + i.ExpiresAt.Format(time.RFC3339)
	}
}
