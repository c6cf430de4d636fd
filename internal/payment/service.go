// Package payment drives the voucher purchase: initiation against the
// public gateway endpoint, status polling, and a local server that catches
// the checkout redirect.
package payment

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// Service wraps the two public payment endpoints.
type Service struct {
	client   *api.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService constructs the payment service.
func NewService(client *api.Client, validate *validator.Validate, logger *zap.Logger) *Service {
	if validate == nil {
		validate = models.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, validate: validate, logger: logger}
}

// Initiate validates the payer details and asks the gateway for a checkout
// URL. An invalid Ghana Card number fails here, before any network call.
func (s *Service) Initiate(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "check the payment details")
	}

	resp := &models.PaymentResponse{}
	if err := s.client.Post(ctx, "/public/make-payment", req, resp); err != nil {
		return nil, err
	}

	s.logger.Info("payment initiated", zap.String("invoice", resp.InvoiceNumber))
	return resp, nil
}

// CheckStatus polls the gateway for an invoice. PENDING comes back as
// ErrPaymentPending so the caller can offer "Try Again"; FAILED is final.
func (s *Service) CheckStatus(ctx context.Context, invoiceNumber string) (models.TransactionStatus, error) {
	if invoiceNumber == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "invoice number required")
	}

	// The status check lives outside the versioned API prefix.
	path := api.QueryPath("/public/check-status", url.Values{"invoiceNumber": {invoiceNumber}})
	resp := &models.PaymentStatusResponse{}
	if err := s.client.PostAbsolute(ctx, path, nil, resp); err != nil {
		return "", err
	}

	switch resp.TransactionStatus {
	case models.PaymentPaid:
		return models.PaymentPaid, nil
	case models.PaymentPending:
		return models.PaymentPending, appErrors.Clone(appErrors.ErrPaymentPending, "")
	default:
		return resp.TransactionStatus, nil
	}
}
