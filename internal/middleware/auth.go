package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/afiliados/afiliados-go/internal/model"
	"github.com/afiliados/afiliados-go/internal/service"
	"github.com/afiliados/afiliados-go/internal/session"
)

// LoginRequiredMessage is queued when an anonymous client hits a guarded page.
const LoginRequiredMessage = "Debes iniciar sesión para acceder a esta página."

type contextKey string

const identityKey contextKey = "identity"

// IdentityResolver reloads the credential bound to a session.
type IdentityResolver interface {
	Identity(ctx context.Context, id int64) (*model.Credential, error)
}

// Flash attaches the request's notice queue to the context.
func Flash(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f := sessions.LoadFlash(r)
			next.ServeHTTP(w, r.WithContext(session.WithFlash(r.Context(), f)))
		})
	}
}

// LoadIdentity resolves the session cookie into a credential stored in the
// request context. A session for a deleted account is dropped.
func LoadIdentity(sessions *session.Manager, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.CredentialID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			c, err := resolver.Identity(r.Context(), id)
			switch {
			case err == nil:
				r = r.WithContext(context.WithValue(r.Context(), identityKey, c))
			case errors.Is(err, service.ErrUnknownCredential):
				sessions.Destroy(w)
			default:
				slog.ErrorContext(r.Context(), "loading session identity", "user_id", id, "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated credential, if any.
func IdentityFromContext(ctx context.Context) (*model.Credential, bool) {
	c, ok := ctx.Value(identityKey).(*model.Credential)
	return c, ok && c != nil
}

// RequireAuth lets only authenticated requests through. Others are sent to
// loginPath with a notice and the requested location in ?next=.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			f := session.FlashFromContext(r.Context())
			f.Add(model.NoticeInfo, LoginRequiredMessage)
			if err := f.Commit(w); err != nil {
				slog.WarnContext(r.Context(), "storing flash notice", "error", err)
			}

			target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// RedirectIfAuthenticated sends authenticated requests straight to target.
func RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
