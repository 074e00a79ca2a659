package controllers

import (
	"net/http"

	"github.com/viannadoces/doceria-web/internal/backend"
	"github.com/viannadoces/doceria-web/internal/contracts"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/render"
)

type contractsData struct {
	Draft *backend.ContractExtraction
	Error string
}

// ContractsShow renders the upload screen with the session's pending draft,
// if one exists.
func ContractsShow(service *contracts.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "contratos")
		sessionID, _ := sessionIDs(r)

		draft, err := service.Draft(ctx, sessionID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		renderer.HTML(ctx, w, http.StatusOK, "contratos.html", render.Page{
			Title:    "Upload de Contratos",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     contractsData{Draft: draft},
		})
	}
}

// ContractsAnalyze sends the uploaded PDF to the extractor and shows the
// extracted record for review.
func ContractsAnalyze(service *contracts.Service, renderer *render.Renderer, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "contratos")
		sessionID, userID := sessionIDs(r)

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			renderer.HTML(ctx, w, http.StatusBadRequest, "contratos.html", render.Page{
				Title:    "Upload de Contratos",
				LoggedIn: true,
				Data:     contractsData{Error: "Arquivo inválido ou grande demais."},
			})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			renderer.HTML(ctx, w, http.StatusBadRequest, "contratos.html", render.Page{
				Title:    "Upload de Contratos",
				LoggedIn: true,
				Data:     contractsData{Error: "Por favor, selecione um arquivo PDF."},
			})
			return
		}
		defer file.Close()

		draft, err := service.Analyze(ctx, sessionID, userID, header.Filename, file)
		if err != nil {
			renderer.HTML(ctx, w, http.StatusUnprocessableEntity, "contratos.html", render.Page{
				Title:    "Upload de Contratos",
				LoggedIn: true,
				Flash:    flashFromError(err),
				Data:     contractsData{},
			})
			return
		}

		render.SetFlash(w, "success", draft.Message)
		http.Redirect(w, r, "/contratos", http.StatusSeeOther)
	}
}

// ContractsSave turns the reviewed draft into a real order.
func ContractsSave(service *contracts.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "contratos")
		sessionID, userID := sessionIDs(r)

		message, err := service.ConfirmSave(ctx, sessionID, userID)
		if err != nil {
			render.SetFlash(w, "error", pkgerrors.UserMessage(err))
			http.Redirect(w, r, "/contratos", http.StatusSeeOther)
			return
		}

		render.SetFlash(w, "success", message)
		http.Redirect(w, r, "/pedidos", http.StatusSeeOther)
	}
}

// ContractsDiscard drops the pending draft.
func ContractsDiscard(service *contracts.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "contratos")
		sessionID, _ := sessionIDs(r)

		if err := service.Discard(ctx, sessionID); err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		http.Redirect(w, r, "/contratos", http.StatusSeeOther)
	}
}
