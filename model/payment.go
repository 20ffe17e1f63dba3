package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"

	PaymentMethodPix  = "pix"
	PaymentMethodCard = "card"
)

const (
	EventStatusPending   = "pending"
	EventStatusPublished = "published"
	EventStatusFailed    = "failed"

	EventTypePaymentCaptured = "payment.captured"
)

type Payment struct {
	ID                int64           `json:"-"`
	PaymentID         string          `json:"payment_id"`
	IdempotencyKey    string          `json:"-"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	PlatformFeeAmount decimal.Decimal `json:"platform_fee_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	PaymentMethod     string          `json:"payment_method"`
	Installments      int             `json:"installments"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

type LedgerEntry struct {
	ID          int64           `json:"-"`
	EntryID     string          `json:"entry_id"`
	PaymentID   string          `json:"-"`
	RecipientID string          `json:"recipient_id"`
	Role        string          `json:"role"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OutboxEvent struct {
	ID          int64           `json:"-"`
	EventID     string          `json:"event_id"`
	PaymentID   string          `json:"payment_id"`
	EventType   string          `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// PaymentView is the self-contained projection of a captured payment and its
// receivables. It is both the API response body and the outbox event payload,
// so a consumer never needs a follow-up lookup.
type PaymentView struct {
	PaymentID         string           `json:"payment_id"`
	Status            string           `json:"status"`
	GrossAmount       decimal.Decimal  `json:"gross_amount"`
	PlatformFeeAmount decimal.Decimal  `json:"platform_fee_amount"`
	NetAmount         decimal.Decimal  `json:"net_amount"`
	Receivables       []Receivable     `json:"receivables"`
	OutboxEvent       *OutboxEventView `json:"outbox_event"`
}

type OutboxEventView struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (view *PaymentView) ToJSON() ([]byte, error) {
	return json.Marshal(view)
}
