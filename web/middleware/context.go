package middleware

import (
	"context"

	"github.com/viannadoces/doceria-web/pkg/session"
)

type contextKey string

const ctxSession contextKey = "session"

// WithSession injects the resolved session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// SessionFromContext returns the request's session, or nil for anonymous.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if sess, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return sess
	}
	return nil
}
