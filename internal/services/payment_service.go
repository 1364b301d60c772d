package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/productsdb-api/internal/events"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"github.com/rs/zerolog"
)

// ReceiptExpiry is how long a presigned receipt link stays valid.
const ReceiptExpiry = 15 * time.Minute

// ReceiptStore archives payment receipts as objects.
type ReceiptStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type ReceiptLink struct {
	ReceiptURL string `json:"receiptUrl"`
	ExpiresIn  string `json:"expiresIn"`
}

type PaymentService struct {
	repo     repository.PaymentRepository
	receipts ReceiptStore
	events   events.Publisher
	logger   *zerolog.Logger
}

// NewPaymentService builds the service. A nil receipts store disables archival.
func NewPaymentService(repo repository.PaymentRepository, receipts ReceiptStore, publisher events.Publisher, logger *zerolog.Logger) *PaymentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PaymentService{repo: repo, receipts: receipts, events: publisher, logger: logger}
}

// Record stores the payment and archives its receipt. Archival failures are
// logged and never fail the payment.
func (s *PaymentService) Record(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	if err := validate.Struct(payment); err != nil {
		return models.InsertResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	res, err := s.repo.Insert(ctx, payment)
	if err != nil {
		return models.InsertResult{}, err
	}

	s.archiveReceipt(ctx, payment)
	s.events.Publish(ctx, events.PaymentRecorded, payment)
	return res, nil
}

func (s *PaymentService) ListFor(ctx context.Context, email string) ([]models.Payment, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	return s.repo.ListByRecipient(ctx, email)
}

// ReceiptURL returns a short lived download link for the payment's receipt.
func (s *PaymentService) ReceiptURL(ctx context.Context, id string) (ReceiptLink, error) {
	if s.receipts == nil {
		return ReceiptLink{}, fmt.Errorf("%w: receipts are disabled", ErrUnavailable)
	}

	objID, err := parseObjectID(id)
	if err != nil {
		return ReceiptLink{}, err
	}

	payment, err := s.repo.FindByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return ReceiptLink{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ReceiptLink{}, err
	}

	key := payment.ReceiptKey
	if key == "" {
		key = receiptKey(payment)
	}

	exists, err := s.receipts.Exists(ctx, key)
	if err != nil {
		return ReceiptLink{}, err
	}
	if !exists {
		return ReceiptLink{}, fmt.Errorf("receipt for payment %s: %w", id, ErrNotFound)
	}

	url, err := s.receipts.PresignedURL(ctx, key, ReceiptExpiry)
	if err != nil {
		return ReceiptLink{}, err
	}
	return ReceiptLink{ReceiptURL: url, ExpiresIn: ReceiptExpiry.String()}, nil
}

func (s *PaymentService) archiveReceipt(ctx context.Context, payment *models.Payment) {
	if s.receipts == nil {
		return
	}

	key := receiptKey(payment)
	body, err := json.Marshal(payment)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", payment.ID.Hex()).Msg("failed to encode receipt")
		return
	}

	if err := s.receipts.Put(ctx, key, body, "application/json"); err != nil {
		s.logger.Error().Err(err).Str("payment_id", payment.ID.Hex()).Msg("failed to archive receipt")
		return
	}

	if err := s.repo.SetReceiptKey(ctx, payment.ID, key); err != nil {
		s.logger.Error().Err(err).Str("payment_id", payment.ID.Hex()).Msg("failed to store receipt key")
		return
	}
	payment.ReceiptKey = key
}

func receiptKey(payment *models.Payment) string {
	return payment.ID.Hex() + ".json"
}
