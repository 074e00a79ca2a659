package orders

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
	orders    []backend.Order
	order     *backend.Order
	updateMsg string
	deleteMsg string
	err       error

	gotOrderID string
	gotFields  map[string]any
}

func (f *fakeAPI) ListOrders(context.Context, string) ([]backend.Order, error) {
	return f.orders, f.err
}

func (f *fakeAPI) GetOrder(_ context.Context, _ string, orderID string) (*backend.Order, error) {
	f.gotOrderID = orderID
	return f.order, f.err
}

func (f *fakeAPI) CreateOrder(_ context.Context, _ string, fields map[string]any) (*backend.CreateOrderResult, error) {
	f.gotFields = fields
	if f.err != nil {
		return nil, f.err
	}
	return &backend.CreateOrderResult{Message: "Pedido salvo com sucesso!"}, nil
}

func (f *fakeAPI) UpdateOrder(_ context.Context, _ string, orderID string, fields map[string]any) (string, error) {
	f.gotOrderID = orderID
	f.gotFields = fields
	return f.updateMsg, f.err
}

func (f *fakeAPI) DeleteOrder(_ context.Context, _ string, orderID string) (string, error) {
	f.gotOrderID = orderID
	return f.deleteMsg, f.err
}

func (f *fakeAPI) DeliveryReport(context.Context, string, string) (*backend.Download, error) {
	return &backend.Download{Filename: "comprovante.docx", Body: io.NopCloser(nil)}, f.err
}

func testService(api *fakeAPI) *Service {
	return NewService(api, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestListMapsRows(t *testing.T) {
	svc := testService(&fakeAPI{orders: []backend.Order{
		{ID: 1, ClienteNome: "Maria", Status: "pendente"},
		{ID: 2, ClienteNome: "João", Status: "confirmado"},
	}})

	rows, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "status-pendente", rows[0].BadgeClass)
	assert.Equal(t, "status-confirmado", rows[1].BadgeClass)
}

func TestListEmptyIsNotAnError(t *testing.T) {
	rows, err := testService(&fakeAPI{}).List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDetailSurvivesBrokenLineItems(t *testing.T) {
	svc := testService(&fakeAPI{order: &backend.Order{ID: 7, ProdutosContratadosJSON: "{broken"}})

	detail, err := svc.Detail(context.Background(), "u1", "7")
	require.NoError(t, err)
	assert.True(t, detail.LineItemsBroken)
	assert.Equal(t, int64(7), detail.Order.ID)
}

func TestConfirmSendsOnlyStatus(t *testing.T) {
	api := &fakeAPI{updateMsg: "Pedido confirmado!"}
	msg, err := testService(api).Confirm(context.Background(), "u1", "7")
	require.NoError(t, err)
	assert.Equal(t, "Pedido confirmado!", msg)
	assert.Equal(t, map[string]any{"status": "confirmado"}, api.gotFields)
}

func TestSaveRequiresOrderID(t *testing.T) {
	_, err := testService(&fakeAPI{}).Save(context.Background(), "u1", " ", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeletePropagatesRejection(t *testing.T) {
	api := &fakeAPI{err: pkgerrors.New(pkgerrors.CodeBackendRejected, "Pedido não encontrado.")}
	_, err := testService(api).Delete(context.Background(), "u1", "99")
	require.Error(t, err)
	assert.Equal(t, "Pedido não encontrado.", pkgerrors.UserMessage(err))
}
