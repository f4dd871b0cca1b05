// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cookie encodes and decodes HTTP cookies with explicit attributes.

	c := cookie.Cookie{
		Name:     "admin",
		Value:    "true",
		HTTPOnly: true,
		Secure:   true,
		SameSite: cookie.SameSiteStrict,
		Path:     "/",
	}
	cookie.Set(w, c) // Set-Cookie: admin=true; Path=/; HttpOnly; Secure; SameSite=Strict

Decoding:

	c, err := cookie.ParseSetCookie(resp.Header.Get("Set-Cookie"))
	values := cookie.Parse(r.Header.Get("Cookie"))

MaxAge follows net/http: zero leaves the attribute out (session cookie),
a negative value renders Max-Age=0 and tells the client to drop it.
*/
package cookie
