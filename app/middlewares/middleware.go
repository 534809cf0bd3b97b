package middlewares

import (
	"net/http"
	"strings"

	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/unrolled/render"
)

// AuthMiddleware validates the Authorization bearer token and stores the
// caller's id and role in the request context.
func AuthMiddleware(rnd *render.Render, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{
					"message": "missing or malformed authorization header",
					"code":    "unauthenticated",
				})
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := helpers.ParseToken(jwtSecret, tokenString)
			if err != nil {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{
					"message": "invalid or expired token",
					"code":    "unauthenticated",
				})
				return
			}

			ctx := helpers.ContextWithUser(r.Context(), claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
