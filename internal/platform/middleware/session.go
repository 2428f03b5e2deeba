package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionIDKey is the echo context key under which the resolved portal
// session id is stored.
const SessionIDKey = "session_id"

// SessionCookieName is the browser cookie holding the opaque session id.
// The bearer token itself never leaves the server.
const SessionCookieName = "portal_session"

// SessionCookieConfig controls how the session cookie is issued.
type SessionCookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// SessionCookie resolves the portal session id from the request cookie,
// minting a fresh id (and setting the cookie) when none is present. The id
// is placed in the echo context for handlers and downstream middleware.
func SessionCookie(cfg SessionCookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sid = cookie.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(SessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the session id resolved by SessionCookie, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(SessionIDKey).(string)
	return sid
}
