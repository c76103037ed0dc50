package dto

// ProviderWebhookPayload is the provider's completion callback body.
// A payload without a snapshot id is a connectivity test.
type ProviderWebhookPayload struct {
	SnapshotID string `json:"snapshot_id"`
	Status     string `json:"status"` // ready | failed
	Error      string `json:"error,omitempty"`
}

// PaymentWebhookPayload is the payment provider's event body, signed
// with HMAC-SHA256 over the raw bytes.
type PaymentWebhookPayload struct {
	SaleID        string `json:"sale_id"`
	SaleTimestamp string `json:"sale_timestamp"`
	LicenseKey    string `json:"license_key"`
	ProductName   string `json:"product_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Refunded      bool   `json:"refunded,omitempty"`
	Disputed      bool   `json:"disputed,omitempty"`
}

// PaymentOutcome is what payment event processing yields; replays of an
// already-processed event return the stored first outcome.
type PaymentOutcome struct {
	EventID        string `json:"event_id"`
	Action         string `json:"action"` // credited | revoked | noop
	CreditsGranted int64  `json:"credits_granted,omitempty"`
	Replayed       bool   `json:"replayed,omitempty"`
}
