package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/pkg"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=rate_limiting_mocks_test.go -package=middleware

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// ProviderUserKey buckets by the provider route variable and the user_id of
// the request (query or JSON body), falling back to the client address.
// The body is restored for the handler.
func ProviderUserKey(r *http.Request) string {
	userID := r.URL.Query().Get("user_id")
	if userID == "" && r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxDrainBytes))
		if err == nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
			var req struct {
				UserID string `json:"user_id"`
			}
			if json.Unmarshal(body, &req) == nil {
				userID = req.UserID
			}
		}
	}
	if userID == "" {
		userID = clientAddr(r)
	}
	return fmt.Sprintf("wearsync:rl:%s:%s", mux.Vars(r)["provider"], userID)
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func RateLimit(
	rateLimiter RequestRateLimiter,
	keyFunc KeyFunc,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := rateLimiter.Allow(
				r.Context(),
				keyFunc(r),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				// a broken limiter must not take the API down with it
				log.Errorf("rate limiter: %s", err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			pkg.WriteJSONError(w, http.StatusTooManyRequests, fmt.Sprintf("rate limited, retry after %d seconds", retryAfter))
		})
	}
}
