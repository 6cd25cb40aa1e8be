// Package routes assembles the HTTP router.
package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/afiliados/afiliados-go/internal/handler"
	"github.com/afiliados/afiliados-go/internal/middleware"
	"github.com/afiliados/afiliados-go/internal/session"
)

// UploadsPath is where disk-stored photos are served.
const UploadsPath = "/static/uploads/"

type Options struct {
	// RequireAuth guards the affiliate pages behind a login.
	RequireAuth bool
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy     bool
	LoginRateRPS   float64
	LoginRateBurst int
	// UploadDir is served under UploadsPath when set.
	UploadDir string
}

type Handlers struct {
	Home       *handler.HomeHandler
	Auth       *handler.AuthHandler
	Affiliates *handler.AffiliateHandler
}

// New builds the application router. Background work started for it stops
// when ctx is done.
func New(ctx context.Context, opts Options, sessions *session.Manager, identities middleware.IdentityResolver, h Handlers) http.Handler {
	r := chi.NewRouter()
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", handler.Health)

	if opts.UploadDir != "" {
		files := http.StripPrefix(UploadsPath, http.FileServer(http.Dir(opts.UploadDir)))
		r.Handle(UploadsPath+"*", noDirListing(files))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Flash(sessions))
		r.Use(middleware.LoadIdentity(sessions, identities))

		r.Get("/", h.Home.HandleIndex)
		r.Get("/logout", h.Auth.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated(handler.PathAffiliates))
			r.Use(middleware.RateLimit(ctx, opts.LoginRateRPS, opts.LoginRateBurst))

			r.Get("/register_user", h.Auth.HandleRegisterForm)
			r.Post("/register_user", h.Auth.HandleRegister)
			r.Get(handler.PathLogin, h.Auth.HandleLoginForm)
			r.Post(handler.PathLogin, h.Auth.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			if opts.RequireAuth {
				r.Use(middleware.RequireAuth(handler.PathLogin))
			}

			r.Get(handler.PathRegistrar, h.Affiliates.HandleForm)
			r.Post(handler.PathRegistrar, h.Affiliates.HandleRegister)
			r.Get(handler.PathAffiliates, h.Affiliates.HandleList)
		})
	})

	return r
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
