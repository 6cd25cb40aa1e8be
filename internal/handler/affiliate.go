package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/afiliados/afiliados-go/internal/model"
	"github.com/afiliados/afiliados-go/internal/service"
	"github.com/afiliados/afiliados-go/internal/view"
)

const (
	msgAffiliateCreated = "Afiliado registrado correctamente."
	msgRequiredFields   = "Todos los campos obligatorios deben llenarse."
	msgNationalIDTaken  = "La cédula ya está registrada."
	msgPhotoNotSaved    = "No se pudo guardar la foto. Inténtalo de nuevo."
	msgPhotoTooLarge    = "La foto excede el tamaño máximo permitido."
	msgBadForm          = "El formulario enviado no es válido."
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 8 << 20

// Affiliates registers and lists affiliates.
type Affiliates interface {
	Register(ctx context.Context, in model.AffiliateInput) (*model.Affiliate, error)
	ListAll(ctx context.Context) ([]model.Affiliate, error)
}

// AffiliateHandler handles the affiliate form and listing.
type AffiliateHandler struct {
	pages
	affiliates Affiliates
	maxUpload  int64
}

// NewAffiliateHandler caps request bodies of the registration form at maxUpload bytes.
func NewAffiliateHandler(affiliates Affiliates, maxUpload int64, v *view.Renderer) *AffiliateHandler {
	return &AffiliateHandler{pages: pages{view: v}, affiliates: affiliates, maxUpload: maxUpload}
}

// HandleForm handles GET /registrar.
func (h *AffiliateHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Registrar, view.Page{Title: "Registrar afiliado"})
}

// HandleRegister handles POST /registrar.
func (h *AffiliateHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			notify(r, model.NoticeDanger, msgPhotoTooLarge)
			h.render(w, r, http.StatusRequestEntityTooLarge, view.Registrar, view.Page{Title: "Registrar afiliado"})
			return
		}
		notify(r, model.NoticeDanger, msgBadForm)
		h.render(w, r, http.StatusBadRequest, view.Registrar, view.Page{Title: "Registrar afiliado"})
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	in := model.AffiliateInput{
		FirstName:  r.FormValue("nombre"),
		LastName:   r.FormValue("apellido"),
		NationalID: r.FormValue("cedula"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("telefono"),
		Address:    r.FormValue("direccion"),
	}
	if r.MultipartForm != nil {
		if file, header, err := r.FormFile("foto"); err == nil {
			defer file.Close()
			in.Photo = &model.PhotoUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	}

	if _, err := h.affiliates.Register(r.Context(), in); err != nil {
		page := view.Page{Title: "Registrar afiliado", Form: map[string]string{
			"nombre":    strings.TrimSpace(in.FirstName),
			"apellido":  strings.TrimSpace(in.LastName),
			"cedula":    strings.TrimSpace(in.NationalID),
			"email":     strings.TrimSpace(in.Email),
			"telefono":  strings.TrimSpace(in.Phone),
			"direccion": strings.TrimSpace(in.Address),
		}}

		switch {
		case errors.Is(err, service.ErrMissingFields):
			notify(r, model.NoticeDanger, msgRequiredFields)
			h.render(w, r, http.StatusUnprocessableEntity, view.Registrar, page)
		case errors.Is(err, service.ErrDuplicateAffiliate):
			notify(r, model.NoticeDanger, msgNationalIDTaken)
			h.render(w, r, http.StatusConflict, view.Registrar, page)
		case errors.Is(err, service.ErrFileWrite):
			h.logError(r, "saving affiliate photo", err)
			notify(r, model.NoticeDanger, msgPhotoNotSaved)
			h.render(w, r, http.StatusInternalServerError, view.Registrar, page)
		default:
			h.serverError(w, r, "registering affiliate", err)
		}
		return
	}

	notify(r, model.NoticeSuccess, msgAffiliateCreated)
	redirect(w, r, PathRegistrar)
}

// HandleList handles GET /afiliados.
func (h *AffiliateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	affiliates, err := h.affiliates.ListAll(r.Context())
	if err != nil {
		h.serverError(w, r, "listing affiliates", err)
		return
	}
	h.render(w, r, http.StatusOK, view.Afiliados, view.Page{Title: "Afiliados", Affiliates: affiliates})
}
