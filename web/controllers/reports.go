package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/viannadoces/doceria-web/internal/orders"
	"github.com/viannadoces/doceria-web/internal/reports"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/web/render"
)

type exportData struct {
	Rows  []orders.ListRow
	Error string
}

// ReportsShow renders the indicators screen.
func ReportsShow(service *reports.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "relatorios")
		_, userID := sessionIDs(r)

		summary, err := service.Summary(ctx, userID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		renderer.HTML(ctx, w, http.StatusOK, "relatorios.html", render.Page{
			Title:    "Relatórios",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     summary,
		})
	}
}

// ReportsData serves the chart payload as JSON for the page script.
func ReportsData(service *reports.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "relatorios")
		_, userID := sessionIDs(r)

		summary, err := service.Summary(ctx, userID)
		if err != nil {
			meta := pkgerrors.MetadataFor(pkgerrors.As(err).Code())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(meta.HTTPStatus)
			json.NewEncoder(w).Encode(map[string]string{"message": pkgerrors.UserMessage(err)})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]json.RawMessage{
			"labels": json.RawMessage(summary.ChartLabelsJSON),
			"values": json.RawMessage(summary.ChartValuesJSON),
		})
	}
}

// ExportShow renders the selection screen for the spreadsheet export.
func ExportShow(orderService *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "exportacao")
		_, userID := sessionIDs(r)

		rows, err := orderService.List(ctx, userID)
		if err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		renderer.HTML(ctx, w, http.StatusOK, "exportacao.html", render.Page{
			Title:    "Exportação de Planilha",
			LoggedIn: true,
			Flash:    render.PopFlash(w, r),
			Data:     exportData{Rows: rows},
		})
	}
}

// Export streams the spreadsheet for the checked orders.
func Export(reportService *reports.Service, orderService *orders.Service, renderer *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := screenCtx(r.Context(), logg, "exportacao")
		_, userID := sessionIDs(r)

		if err := r.ParseForm(); err != nil {
			renderer.Error(ctx, w, err, true)
			return
		}
		ids := make([]int64, 0, len(r.PostForm["pedido_ids"]))
		for _, raw := range r.PostForm["pedido_ids"] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}

		download, err := reportService.Export(ctx, userID, ids)
		if err != nil {
			rows, listErr := orderService.List(ctx, userID)
			if listErr != nil {
				renderer.Error(ctx, w, listErr, true)
				return
			}
			renderer.HTML(ctx, w, http.StatusBadRequest, "exportacao.html", render.Page{
				Title:    "Exportação de Planilha",
				LoggedIn: true,
				Data:     exportData{Rows: rows, Error: pkgerrors.UserMessage(err)},
			})
			return
		}
		defer download.Body.Close()

		writeDownload(w, download.ContentType, download.Filename, download.Body)
	}
}
