// Package contracts drives the contract upload screen. A PDF goes to the
// backend extractor; the extracted record is held as a per-session draft in
// Redis until the user either confirms saving it as an order or walks away
// and the draft expires.
package contracts

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/viannadoces/doceria-web/internal/backend"
	"github.com/viannadoces/doceria-web/pkg/config"
	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

// defaultPickupTime fills horarioRetirada when the contract does not carry a
// pickup time.
const defaultPickupTime = "12:00"

type api interface {
	UploadContract(ctx context.Context, userID, filename string, file io.Reader) (*backend.ContractExtraction, error)
	CreateOrder(ctx context.Context, userID string, fields map[string]any) (*backend.CreateOrderResult, error)
}

type draftStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(sessionID string) string
}

type nilChecker func(error) bool

// Service runs the analyze and confirm-save flows.
type Service struct {
	api   api
	store draftStore
	isNil nilChecker
	cfg   config.ContractsConfig
	log   *logger.Logger
}

func NewService(api api, store draftStore, isNil nilChecker, cfg config.ContractsConfig, log *logger.Logger) *Service {
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * time.Minute
	}
	return &Service{api: api, store: store, isNil: isNil, cfg: cfg, log: log}
}

// Analyze sends the uploaded file to the extractor and stores the result as
// the session's draft, replacing any previous one.
func (s *Service) Analyze(ctx context.Context, sessionID, userID, filename string, file io.Reader) (*backend.ContractExtraction, error) {
	if strings.TrimSpace(filename) == "" || file == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Por favor, selecione um arquivo PDF.")
	}

	extraction, err := s.api.UploadContract(ctx, userID, filename, file)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(extraction)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft")
	}
	if err := s.store.Set(ctx, s.store.DraftKey(sessionID), string(encoded), s.cfg.DraftTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store draft")
	}

	s.log.Info(s.log.WithField(ctx, "filename", filename), "contract analyzed")
	return extraction, nil
}

// Draft returns the session's pending extraction, or nil when none exists.
func (s *Service) Draft(ctx context.Context, sessionID string) (*backend.ContractExtraction, error) {
	raw, err := s.store.Get(ctx, s.store.DraftKey(sessionID))
	if err != nil {
		if s.isNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load draft")
	}
	var extraction backend.ContractExtraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft")
	}
	return &extraction, nil
}

// ConfirmSave turns the pending draft into a real order. Missing pickup data
// is backfilled before submission: the pickup date defaults to the event
// date, the pickup time to noon, and the status to pendente. On success the
// draft is dropped.
func (s *Service) ConfirmSave(ctx context.Context, sessionID, userID string) (string, error) {
	extraction, err := s.Draft(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if extraction == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Nenhum dado extraído para salvar. Envie um contrato primeiro.")
	}

	record := extraction.ExtractedData
	if strings.TrimSpace(record.DataRetirada) == "" {
		record.DataRetirada = record.DataEvento
	}
	if strings.TrimSpace(record.HorarioRetirada) == "" {
		record.HorarioRetirada = defaultPickupTime
	}
	if strings.TrimSpace(record.Status) == "" {
		record.Status = "pendente"
	}

	fields, err := recordFields(record)
	if err != nil {
		return "", err
	}
	result, err := s.api.CreateOrder(ctx, userID, fields)
	if err != nil {
		return "", err
	}

	if err := s.store.Del(ctx, s.store.DraftKey(sessionID)); err != nil {
		// The order exists; a stale draft only risks a duplicate submission.
		s.log.Error(ctx, "drop saved draft", err)
	}
	s.log.Info(s.log.WithUserID(ctx, userID), "contract draft saved as order")
	return result.Message, nil
}

// Discard drops the session's pending draft, if any.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if err := s.store.Del(ctx, s.store.DraftKey(sessionID)); err != nil && !s.isNil(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "discard draft")
	}
	return nil
}

// recordFields flattens the extracted record through its JSON form so the
// submitted field names always match the wire tags.
func recordFields(record backend.ExtractedOrder) (map[string]any, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode record")
	}
	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode record fields")
	}
	return fields, nil
}
