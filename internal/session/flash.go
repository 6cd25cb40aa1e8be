package session

import (
	"context"
	"net/http"

	"github.com/afiliados/afiliados-go/internal/model"
)

// Flash is the queue of notices for one request. Notices loaded from the
// flash cookie plus those added during the request are shown by the next
// rendered page, either this response (Drain) or the one after a redirect
// (Commit).
type Flash struct {
	m         *Manager
	notices   []model.Notice
	hadCookie bool
}

// LoadFlash reads pending notices from the request. A tampered or expired
// cookie is treated as empty.
func (m *Manager) LoadFlash(r *http.Request) *Flash {
	f := &Flash{m: m}

	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return f
	}
	f.hadCookie = true

	var claims flashClaims
	if err := parse(c.Value, &claims, audienceFlash, m.secret); err == nil {
		f.notices = claims.Notices
	}
	return f
}

// Add queues a notice.
func (f *Flash) Add(category, message string) {
	f.notices = append(f.notices, model.Notice{Category: category, Message: message})
}

// Pending returns the queued notices without consuming them.
func (f *Flash) Pending() []model.Notice {
	return f.notices
}

// Drain returns every queued notice and clears the queue and the cookie. Call
// it before writing the response body.
func (f *Flash) Drain(w http.ResponseWriter) []model.Notice {
	notices := f.notices
	f.notices = nil
	if f.hadCookie && f.m != nil {
		f.m.setCookie(w, FlashCookie, "", -1)
		f.hadCookie = false
	}
	return notices
}

// Commit stores queued notices in the flash cookie so the next request can
// show them. Call it before redirecting.
func (f *Flash) Commit(w http.ResponseWriter) error {
	if f.m == nil {
		return nil
	}
	if len(f.notices) == 0 {
		if f.hadCookie {
			f.m.setCookie(w, FlashCookie, "", -1)
			f.hadCookie = false
		}
		return nil
	}

	token, err := sign(flashClaims{RegisteredClaims: registered(audienceFlash, flashTTL), Notices: f.notices}, f.m.secret)
	if err != nil {
		return err
	}
	f.m.setCookie(w, FlashCookie, token, int(flashTTL.Seconds()))
	f.hadCookie = true
	return nil
}

type flashKey struct{}

// WithFlash attaches f to ctx.
func WithFlash(ctx context.Context, f *Flash) context.Context {
	return context.WithValue(ctx, flashKey{}, f)
}

// FlashFromContext returns the request's notice queue. Without one a
// detached queue is returned, whose notices only reach Drain.
func FlashFromContext(ctx context.Context) *Flash {
	if f, ok := ctx.Value(flashKey{}).(*Flash); ok {
		return f
	}
	return &Flash{}
}
