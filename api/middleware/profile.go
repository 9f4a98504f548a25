package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/armeria-vanguard/storefront-web/internal/session"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
)

const (
	profileCookieName   = "av_profile"
	profileCookieMaxAge = 60 * 60 * 24 * 365
)

// Profile assigns each browser a durable anonymous identity via cookie. The
// identity keys the cart and token slots in storage; it is not an account.
func Profile(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := ""
			if cookie, err := r.Cookie(profileCookieName); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					profileID = id.String()
				}
			}

			if profileID == "" {
				profileID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     profileCookieName,
					Value:    profileID,
					Path:     "/",
					MaxAge:   profileCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := session.WithProfile(r.Context(), profileID)
			if logg != nil {
				ctx = logg.WithProfileID(ctx, profileID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
