package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/render"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// AuthRateLimitPolicy defines the throttling parameters for one auth surface.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// AuthRateLimit enforces per-IP and per-email counters on the login and
// register posts. Blocked requests bounce back to the login screen with a
// banner; they never reach the backend.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				key := store.RateLimitKey("ip:" + policy.normalizedName() + ":" + ip)
				if blocked(ctx, logg, w, r, store, policy, key, int64(policy.ipLimit), "ip") {
					return
				}
			}

			if policy.emailLimit > 0 {
				email := normalizeEmail(formEmail(r))
				if email != "" {
					key := store.RateLimitKey("email:" + policy.normalizedName() + ":" + hashValue(email))
					if blocked(ctx, logg, w, r, store, policy, key, int64(policy.emailLimit), "email") {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func blocked(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, store rateLimiterStore, policy AuthRateLimitPolicy, key string, limit int64, scope string) bool {
	count, err := store.IncrWithTTL(ctx, key, policy.window)
	if err != nil {
		// A broken limiter must not lock users out of their own screens.
		if logg != nil {
			logg.Error(ctx, "auth.rate_limit.store_failed", err)
		}
		return false
	}
	if count <= limit {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}

	render.SetFlash(w, "error", "Muitas tentativas. Aguarde um momento e tente novamente.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// formEmail peeks at the posted email without consuming the body for the
// downstream handler.
func formEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	return values.Get("email")
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
