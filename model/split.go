package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// SplitInput is one requested share of a payment's net amount. Inputs are
// ordered; the order decides which recipient absorbs the rounding remainder.
type SplitInput struct {
	RecipientID string          `json:"recipient_id"`
	Role        string          `json:"role"`
	Percent     decimal.Decimal `json:"percent"`
}

// Receivable is a split materialized as an exact amount.
type Receivable struct {
	RecipientID string          `json:"recipient_id"`
	Role        string          `json:"role"`
	Amount      decimal.Decimal `json:"amount"`
}

type SplitResult struct {
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	PlatformFeeAmount decimal.Decimal `json:"platform_fee_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	Receivables       []Receivable    `json:"receivables"`
}

// CalculateSplit computes the platform fee for a gross amount and distributes
// the remaining net amount across the requested splits. The fee is rounded
// half-up at the cent; per-split truncation is handled by AllocateNet. The
// function is pure: same inputs always produce the same result, so it is safe
// to call during idempotent-retry comparisons.
func CalculateSplit(grossAmount decimal.Decimal, method string, installments int, splits []SplitInput) (*SplitResult, error) {
	feePercent, err := PlatformFeePercent(method, installments)
	if err != nil {
		return nil, err
	}

	platformFee := grossAmount.Mul(feePercent).Div(hundred).Round(2)
	netAmount := grossAmount.Sub(platformFee)

	if netAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("net amount after platform fee must be greater than zero")
	}

	receivables, err := AllocateNet(netAmount, splits)
	if err != nil {
		return nil, err
	}

	distributed := decimal.Zero
	for _, receivable := range receivables {
		distributed = distributed.Add(receivable.Amount)
	}
	if !distributed.Equal(netAmount) {
		return nil, errors.New("distributed amount does not equal net amount after platform fee")
	}

	return &SplitResult{
		GrossAmount:       grossAmount,
		PlatformFeeAmount: platformFee,
		NetAmount:         netAmount,
		Receivables:       receivables,
	}, nil
}
