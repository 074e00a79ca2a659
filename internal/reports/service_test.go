package reports

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viannadoces/doceria-web/internal/backend"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

type fakeAPI struct {
	summary *backend.ReportSummary
	err     error

	gotIDs []int64
}

func (f *fakeAPI) ReportSummary(context.Context, string) (*backend.ReportSummary, error) {
	return f.summary, f.err
}

func (f *fakeAPI) ExportOrders(_ context.Context, _ string, ids []int64) (*backend.Download, error) {
	f.gotIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Download{Filename: "pedidos.xlsx"}, nil
}

func testService(api *fakeAPI) *Service {
	return NewService(api, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestSummaryTruncatesLabelsToSeries(t *testing.T) {
	svc := testService(&fakeAPI{summary: &backend.ReportSummary{
		TotalPedidosMes:       12,
		ProdutosMaisPedidos:   "Brigadeiro (340)",
		EvolucaoSemanalMensal: []float64{60, 80, 40, 90, 70},
	}})

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, `["Jan","Fev","Mar","Abr","Mai"]`, summary.ChartLabelsJSON)
	assert.Equal(t, `[60,80,40,90,70]`, summary.ChartValuesJSON)
	assert.True(t, summary.HasSeries)
}

func TestSummaryEmptySeries(t *testing.T) {
	svc := testService(&fakeAPI{summary: &backend.ReportSummary{}})

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, summary.ChartLabelsJSON)
	assert.Equal(t, `[]`, summary.ChartValuesJSON)
	assert.False(t, summary.HasSeries)
}

func TestSummaryFullYearKeepsTwelveLabels(t *testing.T) {
	series := make([]float64, 14)
	svc := testService(&fakeAPI{summary: &backend.ReportSummary{EvolucaoSemanalMensal: series}})

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, `["Jan","Fev","Mar","Abr","Mai","Jun","Jul","Ago","Set","Out","Nov","Dez"]`, summary.ChartLabelsJSON)
}

func TestExportRequiresSelection(t *testing.T) {
	_, err := testService(&fakeAPI{}).Export(context.Background(), "u1", nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestExportForwardsSelectedIDs(t *testing.T) {
	api := &fakeAPI{}
	download, err := testService(api).Export(context.Background(), "u1", []int64{3, 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, api.gotIDs)
	assert.Equal(t, "pedidos.xlsx", download.Filename)
}
