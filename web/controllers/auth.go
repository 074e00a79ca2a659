// Package controllers holds the HTTP handlers behind every screen. Handlers
// parse the request, call one service, and either redirect with a flash
// banner or re-render the screen with inline messages.
package controllers

import (
	"context"
	"net/http"

	"github.com/viannadoces/doceria-web/internal/auth"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/forms"
	"github.com/viannadoces/doceria-web/web/render"
)

type loginData struct {
	Email          string
	Errors         map[string]string
	RegisterEmail  string
	RegisterErrors map[string]string
}

// ShowLogin renders the combined login and registration screen.
func ShowLogin(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.HTML(r.Context(), w, http.StatusOK, "login.html", render.Page{
			Title: "Entrar",
			Flash: render.PopFlash(w, r),
			Data:  loginData{},
		})
	}
}

// Login validates the form, authenticates against the backend, and lands on
// the orders list with a session cookie set.
func Login(service *auth.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "login")

		if err := r.ParseForm(); err != nil {
			renderer.Error(ctx, w, err, false)
			return
		}
		form, fieldErrs := forms.ParseLogin(r.PostForm)
		if fieldErrs != nil {
			renderer.HTML(ctx, w, http.StatusBadRequest, "login.html", render.Page{
				Title: "Entrar",
				Data:  loginData{Email: form.Email, Errors: fieldErrs},
			})
			return
		}

		if _, err := service.Login(ctx, w, form.Email, form.Password); err != nil {
			renderer.HTML(ctx, w, http.StatusUnauthorized, "login.html", render.Page{
				Title: "Entrar",
				Flash: flashFromError(err),
				Data:  loginData{Email: form.Email},
			})
			return
		}

		http.Redirect(w, r, "/pedidos", http.StatusSeeOther)
	}
}

// Register creates the account and bounces back to the login screen with the
// backend's confirmation message.
func Register(service *auth.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "register")

		if err := r.ParseForm(); err != nil {
			renderer.Error(ctx, w, err, false)
			return
		}
		form, fieldErrs := forms.ParseRegister(r.PostForm)
		if fieldErrs != nil {
			renderer.HTML(ctx, w, http.StatusBadRequest, "login.html", render.Page{
				Title: "Entrar",
				Data:  loginData{RegisterEmail: form.Email, RegisterErrors: fieldErrs},
			})
			return
		}

		message, err := service.Register(ctx, form.Email, form.Password)
		if err != nil {
			renderer.HTML(ctx, w, http.StatusUnprocessableEntity, "login.html", render.Page{
				Title: "Entrar",
				Flash: flashFromError(err),
				Data:  loginData{RegisterEmail: form.Email},
			})
			return
		}

		render.SetFlash(w, "success", message)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// Logout clears the session and returns to the login screen.
func Logout(service *auth.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "logout")

		if err := service.Logout(ctx, w, r); err != nil {
			renderer.Error(ctx, w, err, false)
			return
		}
		render.SetFlash(w, "success", "Logout realizado com sucesso.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func screenCtx(ctx context.Context, logg *logger.Logger, screen string) context.Context {
	if logg == nil {
		return ctx
	}
	return logg.WithScreen(ctx, screen)
}
