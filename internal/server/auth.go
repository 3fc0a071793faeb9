package server

import (
	"context"
	"net/http"

	"github.com/me/shipdesk/pkg/model"
)

const ctxKeySession ctxKey = "session"

// SessionFromContext returns the session attached by requireSession.
func SessionFromContext(ctx context.Context) *model.Session {
	if sess, ok := ctx.Value(ctxKeySession).(*model.Session); ok {
		return sess
	}
	return nil
}

// requireSession rejects API requests while nobody is signed in.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.app.Sessions.Get()
		if !ok {
			respondError(w, r, &model.APIError{
				Code:    model.ErrUnauthorized,
				Message: "authentication required",
			})
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
