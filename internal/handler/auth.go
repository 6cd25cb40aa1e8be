package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/afiliados/afiliados-go/internal/model"
	"github.com/afiliados/afiliados-go/internal/service"
	"github.com/afiliados/afiliados-go/internal/session"
	"github.com/afiliados/afiliados-go/internal/view"
)

const (
	msgAccountCreated  = "Cuenta creada correctamente. Inicia sesión."
	msgAllFieldsNeeded = "Todos los campos son obligatorios."
	msgEmailTaken      = "El correo electrónico ya está registrado."
	msgLoggedIn        = "¡Has iniciado sesión correctamente!"
	msgBadCredentials  = "Correo o contraseña incorrectos."
	msgLoggedOut       = "Sesión cerrada."
)

// Accounts registers credentials and checks logins.
type Accounts interface {
	Register(ctx context.Context, in model.RegisterInput) (*model.Credential, error)
	Login(ctx context.Context, in model.LoginInput) (*model.Credential, error)
}

// AuthHandler handles account registration, login and logout.
type AuthHandler struct {
	pages
	accounts Accounts
	sessions *session.Manager
}

func NewAuthHandler(accounts Accounts, sessions *session.Manager, v *view.Renderer) *AuthHandler {
	return &AuthHandler{pages: pages{view: v}, accounts: accounts, sessions: sessions}
}

// HandleRegisterForm handles GET /register_user.
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.RegisterUser, view.Page{Title: "Crear cuenta"})
}

// HandleRegister handles POST /register_user.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	in := model.RegisterInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Phone:    r.PostFormValue("telefono"),
	}

	_, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		// The password is never echoed back.
		page := view.Page{Title: "Crear cuenta", Form: map[string]string{
			"username": strings.TrimSpace(in.Username),
			"email":    strings.TrimSpace(in.Email),
			"telefono": strings.TrimSpace(in.Phone),
		}}

		switch {
		case errors.Is(err, service.ErrMissingFields):
			notify(r, model.NoticeDanger, msgAllFieldsNeeded)
			h.render(w, r, http.StatusUnprocessableEntity, view.RegisterUser, page)
		case errors.Is(err, service.ErrDuplicateEmail):
			notify(r, model.NoticeDanger, msgEmailTaken)
			h.render(w, r, http.StatusConflict, view.RegisterUser, page)
		default:
			h.serverError(w, r, "registering account", err)
		}
		return
	}

	notify(r, model.NoticeSuccess, msgAccountCreated)
	redirect(w, r, PathLogin)
}

// HandleLoginForm handles GET /login.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	next, _ := localPath(r.URL.Query().Get("next"))
	h.render(w, r, http.StatusOK, view.Login, view.Page{Title: "Iniciar sesión", Next: next})
}

// HandleLogin handles POST /login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	in := model.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	next, hasNext := localPath(r.PostFormValue("next"))

	cred, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			notify(r, model.NoticeDanger, msgBadCredentials)
			h.render(w, r, http.StatusUnauthorized, view.Login, view.Page{
				Title: "Iniciar sesión",
				Form:  map[string]string{"email": strings.TrimSpace(in.Email)},
				Next:  next,
			})
			return
		}
		h.serverError(w, r, "logging in", err)
		return
	}

	if err := h.sessions.Establish(w, cred.ID); err != nil {
		h.serverError(w, r, "establishing session", err)
		return
	}

	notify(r, model.NoticeSuccess, msgLoggedIn)
	if !hasNext {
		next = PathAffiliates
	}
	redirect(w, r, next)
}

// HandleLogout handles GET /logout. It is safe to call without a session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w)
	notify(r, model.NoticeSuccess, msgLoggedOut)
	redirect(w, r, PathLogin)
}
