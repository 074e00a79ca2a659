package enums

// OrderStatus is the status taxonomy the backend returns for orders. Values
// are rendered verbatim; only the three known ones get a badge class.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendente"
	OrderStatusConfirmed  OrderStatus = "confirmado"
	OrderStatusProduction OrderStatus = "producao"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProduction:
		return true
	}
	return false
}

// BadgeClass maps the status to its fixed visual class. Unknown values render
// without a class.
func (s OrderStatus) BadgeClass() string {
	switch s {
	case OrderStatusPending:
		return "status-pendente"
	case OrderStatusConfirmed:
		return "status-confirmado"
	case OrderStatusProduction:
		return "status-producao"
	}
	return ""
}

func (s OrderStatus) String() string {
	return string(s)
}
