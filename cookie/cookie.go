// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrInvalidSameSite = errors.New("invalid SameSite value")

type SameSite int

const (
	SameSiteDefault SameSite = iota
	SameSiteLax
	SameSiteStrict
	SameSiteNone
)

// ParseSameSite accepts "strict", "lax", "none" or "" (case-insensitive)
func ParseSameSite(s string) (SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SameSiteDefault, nil
	case "lax":
		return SameSiteLax, nil
	case "strict":
		return SameSiteStrict, nil
	case "none":
		return SameSiteNone, nil
	}
	return SameSiteDefault, fmt.Errorf("%w: %q", ErrInvalidSameSite, s)
}

func (s SameSite) String() string {
	switch s {
	case SameSiteLax:
		return "Lax"
	case SameSiteStrict:
		return "Strict"
	case SameSiteNone:
		return "None"
	}
	return ""
}

// Cookie is a Set-Cookie value with its attributes spelled out.
// MaxAge follows net/http: 0 omits the attribute, negative means Max-Age=0.
type Cookie struct {
	Name     string
	Value    string
	HTTPOnly bool
	Secure   bool
	SameSite SameSite
	Path     string
	MaxAge   int
}

// String renders the cookie as a Set-Cookie header value
func (c Cookie) String() string {
	return c.toHTTP().String()
}

func (c Cookie) toHTTP() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		MaxAge:   c.MaxAge,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
	}
	switch c.SameSite {
	case SameSiteLax:
		hc.SameSite = http.SameSiteLaxMode
	case SameSiteStrict:
		hc.SameSite = http.SameSiteStrictMode
	case SameSiteNone:
		hc.SameSite = http.SameSiteNoneMode
	}
	return hc
}

func fromHTTP(hc *http.Cookie) Cookie {
	c := Cookie{
		Name:     hc.Name,
		Value:    hc.Value,
		Path:     hc.Path,
		MaxAge:   hc.MaxAge,
		HTTPOnly: hc.HttpOnly,
		Secure:   hc.Secure,
	}
	switch hc.SameSite {
	case http.SameSiteLaxMode:
		c.SameSite = SameSiteLax
	case http.SameSiteStrictMode:
		c.SameSite = SameSiteStrict
	case http.SameSiteNoneMode:
		c.SameSite = SameSiteNone
	}
	return c
}

// Set appends the cookie to the response headers
func Set(w http.ResponseWriter, c Cookie) {
	w.Header().Add("Set-Cookie", c.String())
}

// ParseSetCookie decodes a single Set-Cookie header value
func ParseSetCookie(line string) (Cookie, error) {
	hc, err := http.ParseSetCookie(line)
	if err != nil {
		return Cookie{}, fmt.Errorf("failed to parse Set-Cookie: %w", err)
	}
	return fromHTTP(hc), nil
}

// Parse decodes a request Cookie header into name/value pairs.
// Malformed pairs are skipped; the first occurrence of a name wins.
func Parse(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}

	r := http.Request{Header: http.Header{"Cookie": {header}}}
	for _, hc := range r.Cookies() {
		if _, seen := cookies[hc.Name]; !seen {
			cookies[hc.Name] = hc.Value
		}
	}
	return cookies
}

// FromRequest returns the named cookie value and whether it was present
func FromRequest(r *http.Request, name string) (string, bool) {
	v, ok := Parse(strings.Join(r.Header.Values("Cookie"), "; "))[name]
	return v, ok
}

// RawFromRequest returns the named cookie value exactly as the client sent
// it, without the quote stripping net/http applies
func RawFromRequest(r *http.Request, name string) (string, bool) {
	for _, line := range r.Header.Values("Cookie") {
		for _, pair := range strings.Split(line, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if ok && k == name {
				return v, true
			}
		}
	}
	return "", false
}
