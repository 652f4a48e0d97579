package email

// ReceiptData is the payload for a membership receipt email.
type ReceiptData struct {
	PlanName string
	Amount   float64
	Currency string
	OrderID  string // empty for zero-cost activations
	EndDate  string
	Upgraded bool
}

// Provider delivers transactional mail. Receipts are best-effort:
// callers log failures and move on, a mail outage never blocks an
// activation.
type Provider interface {
	SendMembershipReceipt(to string, data ReceiptData) error
}

// NoopProvider discards mail; used in tests and local development.
type NoopProvider struct{}

func (NoopProvider) SendMembershipReceipt(string, ReceiptData) error { return nil }
