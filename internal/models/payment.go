package models

// StripeEvent is the envelope of an incoming Stripe webhook event
type StripeEvent struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Created  int64           `json:"created"` // Unix timestamp in seconds
	Livemode bool            `json:"livemode"`
	Data     StripeEventData `json:"data"`
}

// StripeEventData wraps the event's primary object
type StripeEventData struct {
	Object PaymentIntent `json:"object"`
}

// PaymentIntent carries the subset of Stripe's payment_intent object that the
// license server needs to issue a license
type PaymentIntent struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"` // in the smallest currency unit
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ReceiptEmail string            `json:"receipt_email,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ProcessPaymentSucceeded extracts the payment intent from a
// payment_intent.succeeded event, or nil for any other event type
func (e *StripeEvent) ProcessPaymentSucceeded() *PaymentIntent {
	if e.Type != "payment_intent.succeeded" {
		return nil
	}
	intent := e.Data.Object
	return &intent
}
