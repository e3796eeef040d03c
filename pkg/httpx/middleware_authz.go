package httpx

import (
	"net/http"
	"strings"
)

// RequireRole lets the request through only when the authenticated role is
// one of roles. Must run after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		want[strings.ToUpper(r)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := strings.ToUpper(RoleFromCtx(r.Context()))
			if _, ok := want[role]; !ok {
				WriteError(w, http.StatusForbidden, "forbidden",
					"role "+role+" may not access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
