// Package handler serves the HTML pages and form submissions.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/afiliados/afiliados-go/internal/middleware"
	"github.com/afiliados/afiliados-go/internal/session"
	"github.com/afiliados/afiliados-go/internal/view"
)

// Paths the handlers redirect between.
const (
	PathLogin      = "/login"
	PathAffiliates = "/afiliados"
	PathRegistrar  = "/registrar"
)

// pages renders templates with the request's identity and pending notices.
type pages struct {
	view *view.Renderer
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	page.User, _ = middleware.IdentityFromContext(r.Context())
	page.Notices = session.FlashFromContext(r.Context()).Drain(w)

	if err := p.view.Render(w, status, name, page); err != nil {
		slog.ErrorContext(r.Context(), "rendering page", "page", name, "request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p pages) logError(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
}

// serverError logs err and shows the generic error page.
func (p pages) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	p.logError(r, msg, err)
	p.render(w, r, http.StatusInternalServerError, view.Error, view.Page{Title: "Error"})
}

// notify queues a notice for the next rendered page.
func notify(r *http.Request, category, message string) {
	session.FlashFromContext(r.Context()).Add(category, message)
}

// redirect persists queued notices and sends the client to target.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if err := session.FlashFromContext(r.Context()).Commit(w); err != nil {
		slog.WarnContext(r.Context(), "storing flash notices", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localPath returns next if it is an absolute path on this site.
func localPath(next string) (string, bool) {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "", false
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return next, true
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
