package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viannadoces/doceria-web/internal/auth"
	"github.com/viannadoces/doceria-web/internal/backend"
	"github.com/viannadoces/doceria-web/internal/contracts"
	"github.com/viannadoces/doceria-web/internal/orders"
	"github.com/viannadoces/doceria-web/internal/reports"
	"github.com/viannadoces/doceria-web/pkg/config"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/pkg/session"
	"github.com/viannadoces/doceria-web/web/render"
)

// backendStub fakes the order-management API for full-stack handler tests.
type backendStub struct {
	loginStatus int
	loginBody   map[string]string
	orders      []backend.Order
	order       *backend.Order

	updateStatus  int
	updateMessage string
	updateCalls   int
	lastUpdate    map[string]any
	deleteCalls   int
}

func (s *backendStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		status := s.loginStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(s.loginBody)
	})
	mux.HandleFunc("GET /api/pedidos", func(w http.ResponseWriter, _ *http.Request) {
		if s.orders == nil {
			s.orders = []backend.Order{}
		}
		json.NewEncoder(w).Encode(s.orders)
	})
	mux.HandleFunc("POST /api/pedidos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(backend.CreateOrderResult{Message: "Pedido salvo com sucesso!"})
	})
	mux.HandleFunc("GET /api/pedidos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(s.order)
	})
	mux.HandleFunc("PUT /api/pedidos/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.updateCalls++
		json.NewDecoder(r.Body).Decode(&s.lastUpdate)
		if s.updateStatus != 0 {
			w.WriteHeader(s.updateStatus)
			json.NewEncoder(w).Encode(map[string]string{"message": s.updateMessage})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Pedido atualizado."})
	})
	mux.HandleFunc("DELETE /api/pedidos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		s.deleteCalls++
		json.NewEncoder(w).Encode(map[string]string{"message": "Pedido excluído."})
	})
	mux.HandleFunc("GET /api/reports/generate-delivery-report/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Write([]byte("doc-bytes"))
	})
	mux.HandleFunc("GET /api/reports", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(backend.ReportSummary{TotalPedidosMes: 3, EvolucaoSemanalMensal: []float64{1, 2}})
	})
	return mux
}

// cookieReader resolves the session from a bare test cookie.
type cookieReader struct{}

func (cookieReader) Read(r *http.Request) *session.Session {
	cookie, err := r.Cookie("test_session")
	if err != nil || cookie.Value == "" {
		return nil
	}
	return &session.Session{ID: "sid-" + cookie.Value, UserID: cookie.Value}
}

type issueRecorder struct {
	issued string
}

func (i *issueRecorder) Issue(_ context.Context, w http.ResponseWriter, userID string) (*session.Session, error) {
	i.issued = userID
	http.SetCookie(w, &http.Cookie{Name: "test_session", Value: userID})
	return &session.Session{ID: "sid-" + userID, UserID: userID}, nil
}

func (i *issueRecorder) Clear(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, &http.Cookie{Name: "test_session", Value: "", MaxAge: -1})
	return nil
}

type draftStore struct {
	values map[string]string
}

func (d *draftStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	d.values[key] = value.(string)
	return nil
}

func (d *draftStore) Get(_ context.Context, key string) (string, error) {
	value, ok := d.values[key]
	if !ok {
		return "", io.EOF
	}
	return value, nil
}

func (d *draftStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(d.values, key)
	}
	return nil
}

func (d *draftStore) DraftKey(sessionID string) string { return "draft:" + sessionID }

func newHarness(t *testing.T, stub *backendStub) (http.Handler, *issueRecorder) {
	t.Helper()

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := backend.NewClient(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	renderer, err := render.New(logg)
	require.NoError(t, err)

	issuer := &issueRecorder{}
	isNil := func(err error) bool { return err == io.EOF }
	store := &draftStore{values: map[string]string{}}

	cfg := &config.Config{
		App:       config.AppConfig{Env: "test", Port: "0"},
		Contracts: config.ContractsConfig{DraftTTL: time.Minute, MaxUploadMB: 1},
	}

	router := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Renderer:  renderer,
		Sessions:  cookieReader{},
		Auth:      auth.NewService(client, issuer, logg),
		Orders:    orders.NewService(client, logg),
		Contracts: contracts.NewService(client, store, isNil, cfg.Contracts, logg),
		Reports:   reports.NewService(client, logg),
	})
	return router, issuer
}

func authedGet(path string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.AddCookie(&http.Cookie{Name: "test_session", Value: "u1"})
	return r
}

func authedPost(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "test_session", Value: "u1"})
	return r
}

func TestAnonymousIsRedirectedToLoginOnce(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pedidos", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Following the redirect lands on a rendered page, not another redirect.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Entrar")
}

func TestLoginPersistsBackendIdentifier(t *testing.T) {
	router, issuer := newHarness(t, &backendStub{
		loginBody: map[string]string{"message": "ok", "userId": "u1"},
	})

	form := url.Values{"email": {"a@b.com"}, "password": {"secret"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/pedidos", w.Header().Get("Location"))
	assert.Equal(t, "u1", issuer.issued)
}

func TestLoginRejectionShowsServerMessage(t *testing.T) {
	router, _ := newHarness(t, &backendStub{
		loginStatus: http.StatusUnauthorized,
		loginBody:   map[string]string{"message": "E-mail ou senha incorretos."},
	})

	form := url.Values{"email": {"a@b.com"}, "password": {"wrong1"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "E-mail ou senha incorretos.")
}

func TestOrdersListEmptyPlaceholder(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedGet("/pedidos"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nenhum pedido encontrado.")
}

func TestOrdersListRendersRowsWithBadges(t *testing.T) {
	router, _ := newHarness(t, &backendStub{orders: []backend.Order{
		{ID: 7, ClienteNome: "Maria", TipoPedido: "Festa", Status: "pendente"},
	}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedGet("/pedidos"))

	body := w.Body.String()
	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "status-pendente")
	assert.Contains(t, body, "/pedidos/7")
}

func TestOrderDetailsShowContractFields(t *testing.T) {
	router, _ := newHarness(t, &backendStub{order: &backend.Order{
		ID:                       7,
		ClienteNome:              "Maria",
		ClienteTelefone:          "(11) 98888-7777",
		ClienteEmail:             "maria@exemplo.com",
		ObservacoesGeraisCliente: "Cliente de longa data",
		Status:                   "pendente",
		ValorTotalPedidoContrato: "1234.56",
		LocalEvento:              "Salão Azul",
		ProdutosContratadosJSON:  `[{"Quantidade": 100, "Produto": "Brigadeiro", "Valor Unitário": "R$ 1,00", "Valor Total Item": "R$ 100,00"}]`,
	}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedGet("/pedidos/7"))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Salão Azul")
	assert.Contains(t, body, "R$ 1.234,56")
	assert.Contains(t, body, "Brigadeiro")
	assert.Contains(t, body, "(11) 98888-7777")
	assert.Contains(t, body, "maria@exemplo.com")
	assert.Contains(t, body, "Cliente de longa data")
}

func TestConfirmRequiresExplicitConfirmation(t *testing.T) {
	stub := &backendStub{order: &backend.Order{ID: 7, Status: "pendente"}}
	router, _ := newHarness(t, stub)

	// Without the confirmation field nothing reaches the backend.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7/confirmar", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, stub.updateCalls)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7/confirmar", url.Values{"confirmado": {"sim"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, stub.updateCalls)
	assert.Equal(t, map[string]any{"status": "confirmado"}, stub.lastUpdate)
}

func TestDeleteRequiresExplicitConfirmation(t *testing.T) {
	stub := &backendStub{order: &backend.Order{ID: 7}}
	router, _ := newHarness(t, stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7/excluir", url.Values{}))
	assert.Equal(t, 0, stub.deleteCalls)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7/excluir", url.Values{"confirmado": {"sim"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/pedidos", w.Header().Get("Location"))
	assert.Equal(t, 1, stub.deleteCalls)
}

func TestCreateOrderInvalidDateStaysOnForm(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/novo", url.Values{
		"clienteNome": {"Maria"},
		"tipoPedido":  {"Festa"},
		"dataEvento":  {"01/05/2024"},
		"quantidade":  {"100"},
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Informe uma data válida.")
	// The typed values survive the round trip.
	assert.Contains(t, body, "Maria")
}

func TestCreateOrderSuccessSchedulesReturnToList(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/novo", url.Values{
		"clienteNome": {"Maria"},
		"tipoPedido":  {"Festa"},
		"dataEvento":  {"2024-05-01"},
		"quantidade":  {"100"},
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Pedido salvo com sucesso!")
	assert.Contains(t, body, `http-equiv="refresh" content="2;url=/pedidos"`)
}

func TestEditSaveSendsContractFields(t *testing.T) {
	stub := &backendStub{order: &backend.Order{ID: 7, Status: "pendente"}}
	router, _ := newHarness(t, stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7", url.Values{
		"clienteNome":              {"Maria"},
		"dataEvento":               {"2024-05-01"},
		"status":                   {"pendente"},
		"valorTotalPedidoContrato": {"R$ 100,00"},
		"localEvento":              {"Salão"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, 1, stub.updateCalls)
	assert.Equal(t, "R$ 100,00", stub.lastUpdate["valorTotalPedidoContrato"])
	assert.Equal(t, "Salão", stub.lastUpdate["localEvento"])
	// Untyped fields still travel, as empty strings.
	assert.Contains(t, stub.lastUpdate, "observacoes")
}

func TestEditRejectionKeepsFormActive(t *testing.T) {
	stub := &backendStub{
		order:         &backend.Order{ID: 7, ClienteNome: "Maria", Status: "pendente"},
		updateStatus:  http.StatusBadRequest,
		updateMessage: "Data do evento inválida.",
	}
	router, _ := newHarness(t, stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/pedidos/7", url.Values{
		"clienteNome": {"Maria Clara"},
		"dataEvento":  {"2024-05-01"},
		"status":      {"pendente"},
	}))

	// The server's reason renders inline and the screen stays in edit mode
	// with the typed values, not a redirect.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	body := w.Body.String()
	assert.Contains(t, body, "Data do evento inválida.")
	assert.Contains(t, body, "Maria Clara")
	assert.Contains(t, body, "Salvar Alterações")
	assert.Equal(t, 1, stub.updateCalls)
}

func TestReceiptDownloadNamesFileWithoutDisposition(t *testing.T) {
	router, _ := newHarness(t, &backendStub{order: &backend.Order{ID: 7}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedGet("/pedidos/7/comprovante"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "comprovante_retirada_7.docx")
	assert.Equal(t, "doc-bytes", w.Body.String())
}

func TestExportWithoutSelectionShowsError(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedPost("/exportar", url.Values{}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Selecione ao menos um pedido para exportar.")
}

func TestReportsRenderChartPayload(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedGet("/relatorios"))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, `["Jan","Fev"]`)
	assert.Contains(t, body, "evolucaoChart.destroy()")
}

func TestHealthLive(t *testing.T) {
	router, _ := newHarness(t, &backendStub{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "live")
}
