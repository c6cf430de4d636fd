package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hti-gh/applicant-portal/internal/api"
	"github.com/hti-gh/applicant-portal/internal/models"
	"github.com/hti-gh/applicant-portal/pkg/config"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

func newService(srvURL string) *Service {
	client := api.New(config.APIConfig{BaseURL: srvURL, Prefix: "/api/v1.0"}, nil, models.NewValidator(), nil)
	return NewService(client, models.NewValidator(), nil)
}

func validRequest() models.PaymentRequest {
	return models.PaymentRequest{
		FirstName:       "Ama",
		LastName:        "Mensah",
		PhoneNumber:     "0244123456",
		Email:           "ama@example.com",
		GhanaCardNumber: "GHA-123456789-0",
		RedirectURL:     "http://127.0.0.1:8943/payment/redirect",
	}
}

func TestInitiateReturnsCheckoutDetails(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Empty(t, r.Header.Get("Authorization"), "payment endpoints are public")
		_ = json.NewEncoder(w).Encode(models.PaymentResponse{
			InvoiceNumber: "INV-001",
			CheckoutURL:   "https://gateway.example.com/checkout/INV-001",
		})
	}))
	defer srv.Close()

	resp, err := newService(srv.URL).Initiate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "/api/v1.0/public/make-payment", gotPath)
	assert.Equal(t, "INV-001", resp.InvoiceNumber)
	assert.Equal(t, "https://gateway.example.com/checkout/INV-001", resp.CheckoutURL)
}

func TestInitiateValidatesGhanaCardBeforeNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(models.PaymentResponse{InvoiceNumber: "INV-001"})
	}))
	defer srv.Close()
	svc := newService(srv.URL)

	for _, card := range []string{"", "GHA-12345-0", "gha-123456789-0", "GHA-123456789-X"} {
		req := validRequest()
		req.GhanaCardNumber = card
		_, err := svc.Initiate(context.Background(), req)
		require.Error(t, err, "card %q", card)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Zero(t, requests, "invalid details must never reach the gateway")

	_, err := svc.Initiate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestCheckStatusOutcomes(t *testing.T) {
	status := models.PaymentPaid
	var gotPath, gotInvoice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInvoice = r.URL.Query().Get("invoiceNumber")
		_ = json.NewEncoder(w).Encode(models.PaymentStatusResponse{TransactionStatus: status})
	}))
	defer srv.Close()
	svc := newService(srv.URL)
	ctx := context.Background()

	got, err := svc.CheckStatus(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got)
	// The status check lives at the host root, not under the API prefix.
	assert.Equal(t, "/public/check-status", gotPath)
	assert.Equal(t, "INV-001", gotInvoice)

	status = models.PaymentPending
	got, err = svc.CheckStatus(ctx, "INV-001")
	require.Error(t, err)
	assert.Equal(t, models.PaymentPending, got)
	assert.Equal(t, appErrors.ErrPaymentPending.Code, appErrors.FromError(err).Code)

	status = models.PaymentFailed
	got, err = svc.CheckStatus(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got)
}

func TestCheckStatusRequiresInvoice(t *testing.T) {
	svc := newService("http://127.0.0.1:0")
	_, err := svc.CheckStatus(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
