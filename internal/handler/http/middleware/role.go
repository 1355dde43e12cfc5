package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/response"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/validator"
)

// AdminOrHROnly guards decision and job-trigger endpoints.
func AdminOrHROnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !validator.IsInSlice(role, []string{"admin", "hr"}) {
			response.Forbidden(w, "Admin or HR privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
