package backend

import (
	"github.com/viannadoces/doceria-web/pkg/enums"
)

// Order is the flat order record as the backend serializes it. The gateway
// never computes derived fields; it displays and edits exactly what arrives.
type Order struct {
	ID                       int64             `json:"id,omitempty"`
	ClienteNome              string            `json:"clienteNome"`
	ClienteTelefone          string            `json:"clienteTelefone,omitempty"`
	ClienteEmail             string            `json:"clienteEmail,omitempty"`
	ObservacoesGeraisCliente string            `json:"observacoesGeraisCliente,omitempty"`
	TipoPedido               string            `json:"tipoPedido"`
	DataEvento               string            `json:"dataEvento"`
	DataRetirada             string            `json:"dataRetirada"`
	HorarioRetirada          string            `json:"horarioRetirada"`
	Quantidade               int64             `json:"quantidade"`
	Sabores                  string            `json:"sabores"`
	TipoEmbalagem            string            `json:"tipoEmbalagem"`
	Observacoes              string            `json:"observacoes"`
	Status                   enums.OrderStatus `json:"status"`
	CreatedAt                string            `json:"createdAt,omitempty"`
	UserID                   int64             `json:"userId,omitempty"`

	// Contract fields; present on view and edit payloads alike.
	ClienteRG                string `json:"clienteRG"`
	ClienteCPF               string `json:"clienteCPF"`
	NomeContratado           string `json:"nomeContratado"`
	CnpjContratado           string `json:"cnpjContratado"`
	ValorTotalPedidoContrato string `json:"valorTotalPedidoContrato"`
	DataPagamentoContrato    string `json:"dataPagamentoContrato"`
	LocalEvento              string `json:"localEvento"`
	ProdutosContratadosJSON  string `json:"produtosContratadosJson"`
}

// LoginResult carries the fields the login endpoint answers with. UserID is
// the opaque session identifier and is persisted exactly as received.
type LoginResult struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CreateOrderResult is the create endpoint's success payload.
type CreateOrderResult struct {
	Message string `json:"message"`
	Pedido  *Order `json:"pedido,omitempty"`
}

// ExtractedOrder is the transient record the contract extraction endpoint
// produces. It is held as a per-session draft until the user confirms saving
// it as an order. The extractor never fills DataRetirada, HorarioRetirada, or
// Status; confirm-save backfills those.
type ExtractedOrder struct {
	ClienteNome              string `json:"clienteNome"`
	ClienteRG                string `json:"clienteRG"`
	ClienteCPF               string `json:"clienteCPF"`
	NomeContratado           string `json:"nomeContratado"`
	CnpjContratado           string `json:"cnpjContratado"`
	ValorTotalPedidoContrato string `json:"valorTotalPedidoContrato"`
	DataPagamentoContrato    string `json:"dataPagamentoContrato"`
	DataEvento               string `json:"dataEvento"`
	DataRetirada             string `json:"dataRetirada,omitempty"`
	HorarioRetirada          string `json:"horarioRetirada,omitempty"`
	LocalEvento              string `json:"localEvento"`
	TipoPedido               string `json:"tipoPedido,omitempty"`
	TipoEmbalagem            string `json:"tipoEmbalagem,omitempty"`
	Quantidade               int64  `json:"quantidade"`
	Sabores                  string `json:"sabores"`
	Observacoes              string `json:"observacoes"`
	ProdutosContratadosJSON  string `json:"produtosContratadosJson"`
	Status                   string `json:"status,omitempty"`
}

// ContratanteRaw is the slice of the extractor's raw structure the preview
// screen surfaces (contact data the mapped record does not carry).
type ContratanteRaw struct {
	Telefone    string `json:"Telefone"`
	Email       string `json:"Email"`
	Observacoes string `json:"Observacoes"`
}

// RawContractData nests the extractor's unmapped output.
type RawContractData struct {
	Contratante ContratanteRaw `json:"Contratante"`
}

// ContractExtraction is the upload endpoint's success payload.
type ContractExtraction struct {
	Message       string          `json:"message"`
	ExtractedData ExtractedOrder  `json:"extractedData"`
	RawData       RawContractData `json:"rawData"`
}

// ReportSummary is the aggregate reports payload.
type ReportSummary struct {
	TotalPedidosMes       int64     `json:"totalPedidosMes"`
	ProdutosMaisPedidos   string    `json:"produtosMaisPedidos"`
	ClientesMaisPedidos   string    `json:"clientesMaisPedidos"`
	EvolucaoSemanalMensal []float64 `json:"evolucaoSemanalMensal"`
}
