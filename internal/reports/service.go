// Package reports drives the indicators screen and the spreadsheet export.
package reports

import (
	"context"
	"encoding/json"

	"github.com/viannadoces/doceria-web/internal/backend"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

// monthLabels feeds the evolution chart axis. The backend sends only the
// series; labels are cut to its length.
var monthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

type api interface {
	ReportSummary(ctx context.Context, userID string) (*backend.ReportSummary, error)
	ExportOrders(ctx context.Context, userID string, orderIDs []int64) (*backend.Download, error)
}

// Summary is the indicators screen view model. The JSON fields are inlined
// into the chart bootstrap script.
type Summary struct {
	TotalPedidosMes     int64
	ProdutosMaisPedidos string
	ClientesMaisPedidos string
	ChartLabelsJSON     string
	ChartValuesJSON     string
	HasSeries           bool
}

// Service shapes the aggregate report data.
type Service struct {
	api api
	log *logger.Logger
}

func NewService(api api, log *logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// Summary fetches the aggregate indicators and prepares the chart payload.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	report, err := s.api.ReportSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	labels := chartLabels(len(report.EvolucaoSemanalMensal))
	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode chart labels")
	}
	values := report.EvolucaoSemanalMensal
	if values == nil {
		values = []float64{}
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode chart values")
	}

	return &Summary{
		TotalPedidosMes:     report.TotalPedidosMes,
		ProdutosMaisPedidos: report.ProdutosMaisPedidos,
		ClientesMaisPedidos: report.ClientesMaisPedidos,
		ChartLabelsJSON:     string(labelsJSON),
		ChartValuesJSON:     string(valuesJSON),
		HasSeries:           len(values) > 0,
	}, nil
}

// Export streams the spreadsheet for the selected orders.
func (s *Service) Export(ctx context.Context, userID string, orderIDs []int64) (*backend.Download, error) {
	if len(orderIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Selecione ao menos um pedido para exportar.")
	}
	download, err := s.api.ExportOrders(ctx, userID, orderIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithField(ctx, "count", len(orderIDs)), "orders exported")
	return download, nil
}

// chartLabels returns month labels matching the series length. Series longer
// than a year repeat nothing; the extra points go unlabeled.
func chartLabels(n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n >= len(monthLabels) {
		return monthLabels
	}
	return monthLabels[:n]
}
