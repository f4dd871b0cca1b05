// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http"

	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/cookie"
)

const (
	SessionCookieName = "admin"
	sessionMarker     = "true"
)

// Sessions issues and checks the shared admin session marker
type Sessions struct {
	sameSite cookie.SameSite
	secure   bool
}

func NewSessions(cfg cliparse.Config) *Sessions {
	return &Sessions{
		sameSite: cfg.CookieSameSite,
		// SameSite=None is rejected by browsers without Secure
		secure: !cfg.InsecureCookies || cfg.CookieSameSite == cookie.SameSiteNone,
	}
}

func (s *Sessions) base() cookie.Cookie {
	return cookie.Cookie{
		Name:     SessionCookieName,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
		Path:     "/",
	}
}

// Issue returns the session cookie set after a successful login
func (s *Sessions) Issue() cookie.Cookie {
	c := s.base()
	c.Value = sessionMarker
	return c
}

// Revoke returns a cookie telling the client to drop the session
func (s *Sessions) Revoke() cookie.Cookie {
	c := s.base()
	c.MaxAge = -1
	return c
}

// Validate reports whether the request carries the admin marker.
// The raw value must be exactly "true"; a quoted "true" does not count.
func (s *Sessions) Validate(r *http.Request) bool {
	v, ok := cookie.RawFromRequest(r, SessionCookieName)
	return ok && v == sessionMarker
}
