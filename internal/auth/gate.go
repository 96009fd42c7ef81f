// ABOUTME: HTTP authorization gate rejecting unauthenticated requests with 401
// ABOUTME: Authenticated requests reach the wrapped handler with their Identity

package auth

import (
	"net/http"
)

// UnauthorizedMessage is the fixed text returned for every unauthenticated request.
const UnauthorizedMessage = "Unauthorized. Please provide a valid API key in the Authorization header."

var unauthorizedBody = []byte(`{"error":"` + UnauthorizedMessage + `"}`)

// IdentityHandlerFunc is a handler that also receives the caller's identity.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

// Gate wraps next so it only runs for authenticated requests. The wrapped
// handler's response is written untouched and its panics are not recovered.
func Gate(a *Authenticator, next IdentityHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.Authenticate(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), id)), id)
	})
}

// Middleware is Gate in router middleware form; handlers read the identity
// with FromContext.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return Gate(a, func(w http.ResponseWriter, r *http.Request, _ Identity) {
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(unauthorizedBody)
}
