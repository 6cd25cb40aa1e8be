package handler

import (
	"net/http"

	"github.com/afiliados/afiliados-go/internal/view"
)

type HomeHandler struct {
	pages
}

func NewHomeHandler(v *view.Renderer) *HomeHandler {
	return &HomeHandler{pages: pages{view: v}}
}

// HandleIndex handles GET /.
func (h *HomeHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Index, view.Page{})
}
