package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/viannadoces/doceria-web/internal/auth"
	"github.com/viannadoces/doceria-web/internal/contracts"
	"github.com/viannadoces/doceria-web/internal/orders"
	"github.com/viannadoces/doceria-web/internal/reports"
	"github.com/viannadoces/doceria-web/pkg/config"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/pkg/metrics"
	redisclient "github.com/viannadoces/doceria-web/pkg/redis"
	"github.com/viannadoces/doceria-web/pkg/session"
	"github.com/viannadoces/doceria-web/web/controllers"
	"github.com/viannadoces/doceria-web/web/middleware"
	"github.com/viannadoces/doceria-web/web/render"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Renderer    *render.Renderer
	Sessions    session.Reader
	Redis       *redisclient.Client
	HTTPMetrics *metrics.HTTPMetrics
	Metrics     http.Handler

	Auth      *auth.Service
	Orders    *orders.Service
	Contracts *contracts.Service
	Reports   *reports.Service
}

// NewRouter assembles the full HTTP surface: the screens, the static assets,
// and the operational endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger, d.HTTPMetrics),
		middleware.Session(d.Sessions, d.Logger),
		middleware.Recoverer(d.Logger, d.Renderer),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		d.Config.AuthRateLimit.LoginWindow,
		d.Config.AuthRateLimit.LoginIPLimit,
		d.Config.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		d.Config.AuthRateLimit.RegisterWindow,
		d.Config.AuthRateLimit.RegisterIPLimit,
		d.Config.AuthRateLimit.RegisterEmailLimit,
	)

	r.Handle("/static/*", render.StaticHandler())

	// Operational endpoints allow cross-origin polling from dashboards.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))
		r.Get("/health/live", controllers.HealthLive(d.Config))
		r.Get("/health/ready", controllers.HealthReady(d.Config, d.Logger, d.Redis))
		if d.Metrics != nil {
			r.Handle("/metrics", d.Metrics)
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if middleware.SessionFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/pedidos", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectAuthenticated("/pedidos"))
		r.Get("/login", controllers.ShowLogin(d.Renderer))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, d.Logger)).
			Post("/login", controllers.Login(d.Auth, d.Renderer, d.Logger))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, d.Logger)).
			Post("/registrar", controllers.Register(d.Auth, d.Renderer, d.Logger))
	})

	r.Post("/logout", controllers.Logout(d.Auth, d.Renderer, d.Logger))

	maxUploadBytes := int64(d.Config.Contracts.MaxUploadMB) << 20

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession())

		r.Route("/pedidos", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(d.Orders, d.Renderer, d.Logger))
			r.Get("/novo", controllers.OrderNewForm(d.Renderer))
			r.Post("/novo", controllers.OrderCreate(d.Orders, d.Renderer, d.Logger))

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrderShow(d.Orders, d.Renderer, d.Logger))
				r.Post("/", controllers.OrderSave(d.Orders, d.Renderer, d.Logger))
				r.Get("/confirmar", controllers.OrderConfirmPrompt(d.Renderer))
				r.Post("/confirmar", controllers.OrderConfirm(d.Orders, d.Renderer, d.Logger))
				r.Get("/excluir", controllers.OrderDeletePrompt(d.Renderer))
				r.Post("/excluir", controllers.OrderDelete(d.Orders, d.Renderer, d.Logger))
				r.Get("/comprovante", controllers.OrderReceipt(d.Orders, d.Renderer, d.Logger))
			})
		})

		r.Route("/contratos", func(r chi.Router) {
			r.Get("/", controllers.ContractsShow(d.Contracts, d.Renderer, d.Logger))
			r.Post("/analisar", controllers.ContractsAnalyze(d.Contracts, d.Renderer, maxUploadBytes, d.Logger))
			r.Post("/salvar", controllers.ContractsSave(d.Contracts, d.Renderer, d.Logger))
			r.Post("/descartar", controllers.ContractsDiscard(d.Contracts, d.Renderer, d.Logger))
		})

		r.Get("/relatorios", controllers.ReportsShow(d.Reports, d.Renderer, d.Logger))
		r.Get("/relatorios/dados", controllers.ReportsData(d.Reports, d.Renderer, d.Logger))
		r.Get("/exportar", controllers.ExportShow(d.Orders, d.Renderer, d.Logger))
		r.Post("/exportar", controllers.Export(d.Reports, d.Orders, d.Renderer, d.Logger))
	})

	return r
}
