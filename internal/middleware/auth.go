package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"synapse/internal/auth"
	"synapse/internal/httputil"
)

// AuthMiddleware verifies the bearer token and puts the user ID on the request context.
// With a nil verifier every request runs as devUserID; main only allows that outside prod.
func AuthMiddleware(verifier auth.JWTVerifier, devUserID string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if verifier == nil {
				next.ServeHTTP(w, httputil.WithUserID(r, devUserID))
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("rejected token", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func isPublicPath(path string) bool {
	return path == "/health" || path == "/api/options" || path == "/api/models/capabilities"
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
