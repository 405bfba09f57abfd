package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bistrohub/ordering/pkg/config"
	"github.com/bistrohub/ordering/pkg/logger"
)

const (
	SessionHeader     = "X-Session-Id"
	maxSessionIDLen   = 128
	defaultCookieName = "bh_session"
)

// Session resolves the browser session from the X-Session-Id header or the
// session cookie. A missing or oversized id is replaced by a fresh uuid that
// is handed back as a cookie and in the response header.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = defaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sid == "" {
				if c, err := r.Cookie(name); err == nil {
					sid = strings.TrimSpace(c.Value)
				}
			}
			if sid == "" || len(sid) > maxSessionIDLen {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.TrackingTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, sid)

			ctx := WithSessionID(r.Context(), sid)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
