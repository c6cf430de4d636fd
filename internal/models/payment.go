package models

// TransactionStatus is the gateway-reported state of a payment.
type TransactionStatus string

const (
	PaymentPaid    TransactionStatus = "PAID"
	PaymentPending TransactionStatus = "PENDING"
	PaymentFailed  TransactionStatus = "FAILED"
)

// PaymentRequest initiates a voucher purchase with the payment gateway.
type PaymentRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,min=9"`
	Email           string `json:"email" validate:"required,email"`
	GhanaCardNumber string `json:"ghanaCardNumber" validate:"required,ghcard"`
	RedirectURL     string `json:"redirectUrl" validate:"required,url"`
}

// PaymentResponse points the applicant at the gateway checkout page.
type PaymentResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	CheckoutURL   string `json:"checkoutUrl"`
}

// PaymentStatusResponse is returned by the public status-check endpoint.
type PaymentStatusResponse struct {
	TransactionStatus TransactionStatus `json:"transactionStatus"`
}
