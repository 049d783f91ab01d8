package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "notcluely/pkg/errors"
	httputil "notcluely/pkg/http"
	"notcluely/pkg/logger"
	"notcluely/pkg/model"
	"notcluely/pkg/token"

	"github.com/julienschmidt/httprouter"
)

const identityKey contextKey = "identity"

// IdentityResolver loads the caller's current account state. Resolving per
// request means admin status always reflects the stored record, not a stale
// token claim.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (model.Identity, error)
}

// Authenticator gates routes behind bearer-token authentication.
type Authenticator struct {
	tokens   *token.Manager
	resolver IdentityResolver
	log      *logger.Logger
}

func NewAuthenticator(tokens *token.Manager, resolver IdentityResolver, log *logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		resolver: resolver,
		log:      log,
	}
}

// Require wraps a route so it only runs for authenticated callers, with
// the resolved identity injected into the request context. All failures
// surface as the same 401 to avoid leaking account existence.
func (a *Authenticator) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString, err := bearerToken(r)
		if err != nil {
			a.reject(w, r)
			return
		}

		subject, err := a.tokens.Subject(tokenString)
		if err != nil {
			a.reject(w, r)
			return
		}

		ident, err := a.resolver.ResolveIdentity(r.Context(), subject)
		if err != nil {
			a.reject(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request) {
	a.log.Debug("Rejected unauthenticated request",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
	)
	_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
}

// IdentityFromContext returns the caller identity set by Require.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(model.Identity)
	return ident, ok
}

// WithIdentity is a test helper for exercising handlers without the full
// middleware chain.
func WithIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", token.ErrInvalidToken
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", token.ErrInvalidToken
	}
	t := strings.TrimSpace(parts[1])
	if t == "" {
		return "", token.ErrInvalidToken
	}
	return t, nil
}
