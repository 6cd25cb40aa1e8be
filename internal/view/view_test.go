package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afiliados/afiliados-go/internal/model"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(func(name string) string { return "/static/uploads/" + name })
	require.NoError(t, err)
	return r
}

func TestRender_NoticesAndEscaping(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusUnprocessableEntity, Registrar, Page{
		Notices: []model.Notice{{Category: model.NoticeDanger, Message: "Todos los campos obligatorios deben llenarse."}},
		Form:    map[string]string{"nombre": `<script>x</script>`},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Todos los campos obligatorios deben llenarse.")
	assert.Contains(t, body, "alert-danger")
	assert.NotContains(t, body, "<script>x</script>")
}

func TestRender_AffiliateList(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	photo := "ana.jpg"

	err := r.Render(rec, http.StatusOK, Afiliados, Page{
		User: &model.Credential{Username: "admin"},
		Affiliates: []model.Affiliate{
			{FirstName: "Ana", LastName: "Ruiz", NationalID: "001", Photo: &photo},
			{FirstName: "Luis", LastName: "Soto", NationalID: "002"},
		},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, `src="/static/uploads/ana.jpg"`)
	assert.Contains(t, body, "Sin foto")
	assert.Contains(t, body, "Cerrar sesión")
}

func TestRender_EmptyList(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()

	require.NoError(t, r.Render(rec, http.StatusOK, Afiliados, Page{}))
	assert.Contains(t, rec.Body.String(), "No hay afiliados registrados.")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newRenderer(t)
	err := r.Render(httptest.NewRecorder(), http.StatusOK, "missing", Page{})
	assert.Error(t, err)
}
