package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	cardBaseFeePercent        = decimal.RequireFromString("3.99")
	cardInstallmentFeePercent = decimal.RequireFromString("4.99")
	cardInstallmentStep       = decimal.NewFromInt(2)
)

// PlatformFeePercent resolves the platform fee percentage for a payment method
// and installment count.
//
// Policy:
//   - pix, 1 installment: 0.00
//   - card, 1 installment: 3.99
//   - card, n installments (2..12): 4.99 + (n-1)*2
//
// The returned percent is never rounded here; rounding happens when the percent
// is applied to an amount.
func PlatformFeePercent(method string, installments int) (decimal.Decimal, error) {
	switch method {
	case PaymentMethodPix:
		if installments > 1 {
			return decimal.Zero, errors.New("pix payments cannot have installments")
		}
		return decimal.Zero, nil
	case PaymentMethodCard:
		if installments < 1 || installments > 12 {
			return decimal.Zero, errors.New("card payments must have installments between 1 and 12")
		}
		if installments == 1 {
			return cardBaseFeePercent, nil
		}
		additional := decimal.NewFromInt(int64(installments - 1)).Mul(cardInstallmentStep)
		return cardInstallmentFeePercent.Add(additional), nil
	default:
		return decimal.Zero, fmt.Errorf("%s: unsupported payment method", method)
	}
}
