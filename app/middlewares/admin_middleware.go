package middlewares

import (
	"log"
	"net/http"

	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/unrolled/render"
)

// AdminAuthMiddleware re-reads the user row so a revoked admin role takes
// effect immediately, not at token expiry.
func AdminAuthMiddleware(rnd *render.Render, userRepo repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := helpers.GetUserIDFromContext(r.Context())
			if userID == "" {
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{
					"message": "authentication required",
					"code":    "unauthenticated",
				})
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil || user == nil {
				log.Printf("AdminAuthMiddleware: error finding user %s: %v", userID, err)
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{
					"message": "user not found or session invalid",
					"code":    "unauthenticated",
				})
				return
			}

			if user.Role != models.RoleAdmin {
				rnd.JSON(w, http.StatusForbidden, map[string]string{
					"message": "admin role required",
					"code":    "unauthorized",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
