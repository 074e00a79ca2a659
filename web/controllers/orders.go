package controllers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/viannadoces/doceria-web/internal/orders"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/forms"
	"github.com/viannadoces/doceria-web/web/render"
)

type listData struct {
	Rows []orders.ListRow
}

type newOrderData struct {
	Values  map[string]string
	Errors  map[string]string
	Success bool
	Message string
}

type detailData struct {
	Detail *orders.Detail
	Form   map[string]string
	Error  string
}

type confirmData struct {
	Title        string
	Prompt       string
	Action       string
	ConfirmLabel string
	CancelURL    string
	Danger       bool
}

// OrdersList renders the orders table, or the empty placeholder.
func OrdersList(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "pedidos")
		_, userID := sessionIDs(r)

		rows, err := service.List(ctx, userID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		renderer.HTML(ctx, w, http.StatusOK, "pedidos.html", render.Page{
			Title:    "Pedidos",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     listData{Rows: rows},
		})
	}
}

// OrderNewForm renders the empty creation form.
func OrderNewForm(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.HTML(r.Context(), w, http.StatusOK, "pedido_novo.html", render.Page{
			Title:    "Novo Pedido",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     newOrderData{Values: map[string]string{}},
		})
	}
}

// OrderCreate validates the required fields and submits the whole form. On
// success the page announces the result and returns to the list shortly
// after.
func OrderCreate(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "novo_pedido")
		_, userID := sessionIDs(r)

		if err := r.ParseForm(); err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		values := flatten(r.PostForm)

		if _, fieldErrs := forms.ParseNewOrder(r.PostForm); fieldErrs != nil {
			renderer.HTML(ctx, w, http.StatusBadRequest, "pedido_novo.html", render.Page{
				Title:    "Novo Pedido",
				LoggedIn: true,
				Data:     newOrderData{Values: values, Errors: fieldErrs},
			})
			return
		}

		result, err := service.Create(ctx, userID, orders.CollectCreate(r.PostForm))
		if err != nil {
			renderer.HTML(ctx, w, http.StatusUnprocessableEntity, "pedido_novo.html", render.Page{
				Title:    "Novo Pedido",
				LoggedIn: true,
				Flash:    flashFromError(err),
				Data:     newOrderData{Values: values},
			})
			return
		}

		renderer.HTML(ctx, w, http.StatusOK, "pedido_novo.html", render.Page{
			Title:    "Novo Pedido",
			LoggedIn: true,
			Data:     newOrderData{Success: true, Message: result.Message},
		})
	}
}

// OrderShow renders the details and edit screen for one order.
func OrderShow(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "detalhes_pedido")
		_, userID := sessionIDs(r)

		detail, err := service.Detail(ctx, userID, orderIDParam(r))
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		renderer.HTML(ctx, w, http.StatusOK, "pedido_detalhes.html", render.Page{
			Title:    "Detalhes do Pedido",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     detailData{Detail: detail, Form: orders.EditForm(detail.Order)},
		})
	}
}

// OrderSave writes the full edit form back to the order. A field that fails
// the local checks keeps the screen in edit mode with the typed values.
func OrderSave(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "detalhes_pedido")
		_, userID := sessionIDs(r)
		orderID := orderIDParam(r)

		if err := r.ParseForm(); err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}

		if _, fieldErrs := forms.ParseEditOrder(r.PostForm); fieldErrs != nil {
			rerenderEdit(ctx, w, service, renderer, userID, orderID, r.PostForm, firstMessage(fieldErrs))
			return
		}

		message, err := service.Save(ctx, userID, orderID, orders.CollectEdit(r.PostForm))
		if err != nil {
			rerenderEdit(ctx, w, service, renderer, userID, orderID, r.PostForm, pkgerrors.UserMessage(err))
			return
		}

		render.SetFlash(w, "success", message)
		http.Redirect(w, r, "/pedidos/"+orderID, http.StatusSeeOther)
	}
}

// OrderConfirmPrompt asks for explicit confirmation before the status change.
func OrderConfirmPrompt(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := orderIDParam(r)
		renderer.HTML(r.Context(), w, http.StatusOK, "confirmar.html", render.Page{
			Title:    "Confirmar Pedido",
			LoggedIn: true,
			Data: confirmData{
				Title:        "Confirmar Pedido",
				Prompt:       "Deseja confirmar o pedido #" + orderID + "?",
				Action:       "/pedidos/" + orderID + "/confirmar",
				ConfirmLabel: "Confirmar",
				CancelURL:    "/pedidos/" + orderID,
			},
		})
	}
}

// OrderConfirm flips the order to confirmado after explicit confirmation.
func OrderConfirm(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "confirmar_pedido")
		_, userID := sessionIDs(r)
		orderID := orderIDParam(r)

		if !confirmed(r) {
			http.Redirect(w, r, "/pedidos/"+orderID, http.StatusSeeOther)
			return
		}

		message, err := service.Confirm(ctx, userID, orderID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		render.SetFlash(w, "success", message)
		http.Redirect(w, r, "/pedidos/"+orderID, http.StatusSeeOther)
	}
}

// OrderDeletePrompt asks for explicit confirmation before removal.
func OrderDeletePrompt(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := orderIDParam(r)
		renderer.HTML(r.Context(), w, http.StatusOK, "confirmar.html", render.Page{
			Title:    "Excluir Pedido",
			LoggedIn: true,
			Data: confirmData{
				Title:        "Excluir Pedido",
				Prompt:       "Tem certeza que deseja excluir o pedido #" + orderID + "? Esta ação não pode ser desfeita.",
				Action:       "/pedidos/" + orderID + "/excluir",
				ConfirmLabel: "Excluir",
				CancelURL:    "/pedidos/" + orderID,
				Danger:       true,
			},
		})
	}
}

// OrderDelete removes the order after explicit confirmation.
func OrderDelete(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "excluir_pedido")
		_, userID := sessionIDs(r)
		orderID := orderIDParam(r)

		if !confirmed(r) {
			http.Redirect(w, r, "/pedidos/"+orderID, http.StatusSeeOther)
			return
		}

		message, err := service.Delete(ctx, userID, orderID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		render.SetFlash(w, "success", message)
		http.Redirect(w, r, "/pedidos", http.StatusSeeOther)
	}
}

// OrderReceipt streams the delivery receipt document to the browser.
func OrderReceipt(service *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "comprovante")
		_, userID := sessionIDs(r)

		orderID := orderIDParam(r)
		download, err := service.Receipt(ctx, userID, orderID)
		if err != nil {
			render.SetFlash(w, "error", pkgerrors.UserMessage(err))
			http.Redirect(w, r, "/pedidos/"+orderID, http.StatusSeeOther)
			return
		}
		defer download.Body.Close()

		filename := download.Filename
		if filename == "" {
			// The backend usually names the document; keep the download usable
			// when it does not.
			filename = "comprovante_retirada_" + orderID + ".docx"
		}
		writeDownload(w, download.ContentType, filename, download.Body)
	}
}

func rerenderEdit(ctx context.Context, w http.ResponseWriter, service *orders.Service, renderer *render.Renderer, userID, orderID string, posted url.Values, errMessage string) {
	detail, err := service.Detail(ctx, userID, orderID)
	if err != nil {
		renderer.Error(ctx, w, err, true)
		return
	}
	form := orders.EditForm(detail.Order)
	for name := range form {
		if posted.Has(name) {
			form[name] = posted.Get(name)
		}
	}
	renderer.HTML(ctx, w, http.StatusBadRequest, "pedido_detalhes.html", render.Page{
		Title:    "Detalhes do Pedido",
		LoggedIn: true,
		Data:     detailData{Detail: detail, Form: form, Error: errMessage},
	})
}

func confirmed(r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		return false
	}
	return r.PostForm.Get("confirmado") == "sim"
}

func flatten(values url.Values) map[string]string {
	flat := make(map[string]string, len(values))
	for name := range values {
		flat[name] = values.Get(name)
	}
	return flat
}

func firstMessage(fieldErrs map[string]string) string {
	for _, msg := range fieldErrs {
		if strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return "Dados inválidos."
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body io.Reader) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	io.Copy(w, body)
}
