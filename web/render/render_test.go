package render

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viannadoces/doceria-web/internal/backend"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := New(logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return renderer
}

func TestHTMLRendersLayoutAndContent(t *testing.T) {
	renderer := testRenderer(t)

	w := httptest.NewRecorder()
	renderer.HTML(context.Background(), w, http.StatusOK, "erro.html", Page{
		Title: "Erro",
		Data:  map[string]string{"Message": "mensagem de teste"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "mensagem de teste")
	assert.NotContains(t, body, "navbar")
}

func TestHTMLShowsNavbarWhenLoggedIn(t *testing.T) {
	renderer := testRenderer(t)

	w := httptest.NewRecorder()
	renderer.HTML(context.Background(), w, http.StatusOK, "erro.html", Page{
		Title:    "Erro",
		LoggedIn: true,
		Data:     map[string]string{"Message": "x"},
	})
	assert.Contains(t, w.Body.String(), "navbar")
}

func TestErrorHidesTransportDetails(t *testing.T) {
	renderer := testRenderer(t)

	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeBackendUnreachable, "connection refused to 10.0.0.9")
	renderer.Error(context.Background(), w, err, false)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Erro ao conectar com o servidor. Tente novamente.")
	assert.NotContains(t, body, "10.0.0.9")
}

func TestErrorShowsRejectionMessage(t *testing.T) {
	renderer := testRenderer(t)

	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeBackendRejected, "Quantidade inválida.")
	renderer.Error(context.Background(), w, err, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Quantidade inválida.")
}

func TestContractPreviewShowsEveryExtractedField(t *testing.T) {
	renderer := testRenderer(t)

	draft := &backend.ContractExtraction{
		ExtractedData: backend.ExtractedOrder{
			ClienteNome:     "Maria",
			DataEvento:      "2024-05-01",
			DataRetirada:    "2024-04-30",
			HorarioRetirada: "09:00",
			TipoPedido:      "Festa",
			TipoEmbalagem:   "Caixa personalizada",
		},
		RawData: backend.RawContractData{
			Contratante: backend.ContratanteRaw{
				Telefone:    "(11) 97777-6666",
				Email:       "maria@exemplo.com",
				Observacoes: "Entrega no salão",
			},
		},
	}

	data := struct {
		Draft *backend.ContractExtraction
		Error string
	}{Draft: draft}

	w := httptest.NewRecorder()
	renderer.HTML(context.Background(), w, http.StatusOK, "contratos.html", Page{
		Title:    "Upload de Contratos",
		LoggedIn: true,
		Data:     data,
	})

	body := w.Body.String()
	assert.Contains(t, body, "2024-04-30")
	assert.Contains(t, body, "09:00")
	assert.Contains(t, body, "Festa")
	assert.Contains(t, body, "Caixa personalizada")
	assert.Contains(t, body, "Entrega no salão")
}

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetFlash(w, "success", "Pedido salvo com sucesso!")

	r := httptest.NewRequest(http.MethodGet, "/pedidos", nil)
	for _, cookie := range w.Result().Cookies() {
		r.AddCookie(cookie)
	}

	next := httptest.NewRecorder()
	flash := PopFlash(next, r)
	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Kind)
	assert.Equal(t, "Pedido salvo com sucesso!", flash.Message)

	// Popping clears the cookie.
	cookies := next.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestPopFlashWithoutCookie(t *testing.T) {
	flash := PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, flash)
}
