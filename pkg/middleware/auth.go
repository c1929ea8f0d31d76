package middleware

import (
	"net/http"

	"costume-rental/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey checks the X-Admin-Key header against the configured bcrypt hash
// and marks the request as performed by an admin.
func AdminKey(keyHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	hash := []byte(keyHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				utils.ResponseUnauthorized(w, "Missing admin key")
				return
			}

			if len(hash) == 0 {
				logger.Warn("Admin request rejected, no admin key hash configured",
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid admin key")
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
				logger.Warn("Admin check: invalid key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid admin key")
				return
			}

			ctx := utils.SetActorContext(r.Context(), utils.ActorAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
