package orders

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/viannadoces/doceria-web/internal/backend"
	"github.com/viannadoces/doceria-web/pkg/enums"
	"github.com/viannadoces/doceria-web/pkg/types"
)

// ListRow is one line of the orders table.
type ListRow struct {
	ID          int64
	ClienteNome string
	TipoPedido  string
	DataEvento  string
	Quantidade  int64
	Status      enums.OrderStatus
	BadgeClass  string
}

// Detail is the full order as the details screen renders it.
type Detail struct {
	Order         *backend.Order
	ValorContrato string
	LineItems     []LineItem
	// LineItemsBroken is set when produtosContratadosJson exists but could
	// not be parsed; the template shows a placeholder row instead.
	LineItemsBroken bool
}

// FlexValue tolerates the extractor emitting either strings or bare numbers
// for the same column across contracts.
type FlexValue string

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FlexValue(n.String())
	return nil
}

func (v FlexValue) String() string { return string(v) }

// LineItem is one contracted product row. The JSON keys match the extractor's
// output exactly, spaces and accents included.
type LineItem struct {
	Quantidade     FlexValue `json:"Quantidade"`
	Produto        FlexValue `json:"Produto"`
	ValorUnitario  FlexValue `json:"Valor Unitário"`
	ValorTotalItem FlexValue `json:"Valor Total Item"`
}

// ParseLineItems decodes the contracted products blob. An empty blob means no
// contract; a malformed one is an error the caller reports without failing
// the page.
func ParseLineItems(raw string) ([]LineItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// editableFields is the exact field set the edit form reads and writes.
// Contract fields are part of it so a plain save never wipes them.
var editableFields = []string{
	"clienteNome",
	"clienteTelefone",
	"clienteEmail",
	"tipoPedido",
	"dataEvento",
	"dataRetirada",
	"horarioRetirada",
	"quantidade",
	"sabores",
	"tipoEmbalagem",
	"observacoes",
	"observacoesGeraisCliente",
	"status",
	"clienteRG",
	"clienteCPF",
	"nomeContratado",
	"cnpjContratado",
	"valorTotalPedidoContrato",
	"dataPagamentoContrato",
	"localEvento",
}

// EditForm flattens an order into the edit form's input values, keyed by the
// same names CollectEdit reads back.
func EditForm(order *backend.Order) map[string]string {
	return map[string]string{
		"clienteNome":              order.ClienteNome,
		"clienteTelefone":          order.ClienteTelefone,
		"clienteEmail":             order.ClienteEmail,
		"tipoPedido":               order.TipoPedido,
		"dataEvento":               order.DataEvento,
		"dataRetirada":             order.DataRetirada,
		"horarioRetirada":          order.HorarioRetirada,
		"quantidade":               formatInt(order.Quantidade),
		"sabores":                  order.Sabores,
		"tipoEmbalagem":            order.TipoEmbalagem,
		"observacoes":              order.Observacoes,
		"observacoesGeraisCliente": order.ObservacoesGeraisCliente,
		"status":                   string(order.Status),
		"clienteRG":                order.ClienteRG,
		"clienteCPF":               order.ClienteCPF,
		"nomeContratado":           order.NomeContratado,
		"cnpjContratado":           order.CnpjContratado,
		"valorTotalPedidoContrato": order.ValorTotalPedidoContrato,
		"dataPagamentoContrato":    order.DataPagamentoContrato,
		"localEvento":              order.LocalEvento,
	}
}

// CollectEdit gathers the posted edit form into the update payload. Every
// editable field is sent, present or empty, so the saved record mirrors the
// form exactly.
func CollectEdit(values url.Values) map[string]any {
	fields := make(map[string]any, len(editableFields))
	for _, name := range editableFields {
		fields[name] = values.Get(name)
	}
	return fields
}

// CollectCreate gathers the posted creation form generically. Every posted
// field travels as-is; the backend validates and coerces.
func CollectCreate(values url.Values) map[string]any {
	fields := make(map[string]any, len(values))
	for name := range values {
		fields[name] = values.Get(name)
	}
	return fields
}

// NewDetail assembles the details view model from a fetched order.
func NewDetail(order *backend.Order) (*Detail, error) {
	detail := &Detail{
		Order:         order,
		ValorContrato: types.ParseMoney(order.ValorTotalPedidoContrato).Display(),
	}
	items, err := ParseLineItems(order.ProdutosContratadosJSON)
	if err != nil {
		detail.LineItemsBroken = true
		return detail, err
	}
	detail.LineItems = items
	return detail, nil
}

// NewListRow maps one fetched order onto its table line.
func NewListRow(order backend.Order) ListRow {
	return ListRow{
		ID:          order.ID,
		ClienteNome: order.ClienteNome,
		TipoPedido:  order.TipoPedido,
		DataEvento:  order.DataEvento,
		Quantidade:  order.Quantidade,
		Status:      order.Status,
		BadgeClass:  order.Status.BadgeClass(),
	}
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
