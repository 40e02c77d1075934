package middleware

import (
	"net/http"

	"github.com/2beens/wearsync/pkg"

	log "github.com/sirupsen/logrus"
)

const ServiceSecretHeader = "X-WEARSYNC-SECRET"

// ServiceSecret guards a route with a shared secret, checked against its
// bcrypt hash. An empty hash disables the check.
func ServiceSecret(secretHash string) func(next http.Handler) http.Handler {
	if secretHash == "" {
		log.Warnln("service secret hash not set, API is unauthenticated")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretHash == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get(ServiceSecretHeader)
			if secret == "" || !pkg.CheckSecretHash(secret, secretHash) {
				pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
