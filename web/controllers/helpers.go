package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/web/middleware"
	"github.com/viannadoces/doceria-web/web/render"
)

// flashFromError converts an error into an inline error banner, respecting
// each code's message exposure policy.
func flashFromError(err error) *render.Flash {
	return &render.Flash{Kind: "error", Message: pkgerrors.UserMessage(err)}
}

// sessionIDs returns the current session and user identifiers. The guard
// middleware ensures a session exists on every route that calls this.
func sessionIDs(r *http.Request) (sessionID, userID string) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		return "", ""
	}
	return sess.ID, sess.UserID
}

func orderIDParam(r *http.Request) string {
	return chi.URLParam(r, "orderID")
}
