// Package orders drives the order screens: listing, details, creation,
// editing, confirmation, deletion, and the delivery receipt download. All
// state lives in the backend; this layer shapes it for templates.
package orders

import (
	"context"
	"strings"

	"github.com/viannadoces/doceria-web/internal/backend"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

type api interface {
	ListOrders(ctx context.Context, userID string) ([]backend.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*backend.Order, error)
	CreateOrder(ctx context.Context, userID string, fields map[string]any) (*backend.CreateOrderResult, error)
	UpdateOrder(ctx context.Context, userID, orderID string, fields map[string]any) (string, error)
	DeleteOrder(ctx context.Context, userID, orderID string) (string, error)
	DeliveryReport(ctx context.Context, userID, orderID string) (*backend.Download, error)
}

// Service is the order-screen façade over the backend client.
type Service struct {
	api api
	log *logger.Logger
}

func NewService(api api, log *logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// List fetches every visible order as table rows, newest state as the backend
// orders them.
func (s *Service) List(ctx context.Context, userID string) ([]ListRow, error) {
	orders, err := s.api.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows := make([]ListRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, NewListRow(order))
	}
	return rows, nil
}

// Detail fetches one order and shapes it for the details screen. A malformed
// contracted-products blob does not fail the page; it is logged and flagged.
func (s *Service) Detail(ctx context.Context, userID, orderID string) (*Detail, error) {
	order, err := s.api.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	detail, parseErr := NewDetail(order)
	if parseErr != nil {
		s.log.Error(s.log.WithField(ctx, "order_id", orderID), "contracted products blob unparsable", parseErr)
	}
	return detail, nil
}

// Create submits the collected creation form.
func (s *Service) Create(ctx context.Context, userID string, fields map[string]any) (*backend.CreateOrderResult, error) {
	result, err := s.api.CreateOrder(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithUserID(ctx, userID), "order created")
	return result, nil
}

// Save sends the full edit form for one order.
func (s *Service) Save(ctx context.Context, userID, orderID string, fields map[string]any) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "ID do pedido ausente.")
	}
	message, err := s.api.UpdateOrder(ctx, userID, orderID, fields)
	if err != nil {
		return "", err
	}
	s.log.Info(s.log.WithField(ctx, "order_id", orderID), "order updated")
	return message, nil
}

// Confirm moves one order from pendente to confirmado. Only the status field
// travels; nothing else may change on this path.
func (s *Service) Confirm(ctx context.Context, userID, orderID string) (string, error) {
	message, err := s.api.UpdateOrder(ctx, userID, orderID, map[string]any{"status": "confirmado"})
	if err != nil {
		return "", err
	}
	s.log.Info(s.log.WithField(ctx, "order_id", orderID), "order confirmed")
	return message, nil
}

// Delete removes one order.
func (s *Service) Delete(ctx context.Context, userID, orderID string) (string, error) {
	message, err := s.api.DeleteOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	s.log.Info(s.log.WithField(ctx, "order_id", orderID), "order deleted")
	return message, nil
}

// Receipt streams the delivery receipt document for one order.
func (s *Service) Receipt(ctx context.Context, userID, orderID string) (*backend.Download, error) {
	return s.api.DeliveryReport(ctx, userID, orderID)
}
