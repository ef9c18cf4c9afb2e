package middleware

import (
	"net/http"

	"github.com/dannyaudian/payroll-indonesia-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired verifies the caller carries a valid service token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "service" || !ok {
				response.Unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
