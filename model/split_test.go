package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateSplit_PixZeroFee(t *testing.T) {
	result, err := CalculateSplit(decimal.RequireFromString("100.00"), PaymentMethodPix, 1, splitInputs("100"))
	assert.NoError(t, err)
	assert.Equal(t, "0", result.PlatformFeeAmount.String())
	assert.Equal(t, "100", result.NetAmount.String())
	assert.Len(t, result.Receivables, 1)
	assert.Equal(t, "100", result.Receivables[0].Amount.String())
}

func TestCalculateSplit_CardThreeInstallments(t *testing.T) {
	result, err := CalculateSplit(decimal.RequireFromString("100.00"), PaymentMethodCard, 3, splitInputs("100"))
	assert.NoError(t, err)
	assert.Equal(t, "8.99", result.PlatformFeeAmount.String())
	assert.Equal(t, "91.01", result.NetAmount.String())
	assert.Equal(t, "91.01", result.Receivables[0].Amount.String())
}

func TestCalculateSplit_PennyAllocation(t *testing.T) {
	result, err := CalculateSplit(decimal.RequireFromString("100.00"), PaymentMethodPix, 1, splitInputs("33.33", "33.33", "33.34"))
	assert.NoError(t, err)

	total := decimal.Zero
	for _, receivable := range result.Receivables {
		total = total.Add(receivable.Amount)
	}
	assert.True(t, total.Equal(result.NetAmount))
}

func TestCalculateSplit_RemainderGoesToLastSplit(t *testing.T) {
	result, err := CalculateSplit(decimal.RequireFromString("0.05"), PaymentMethodPix, 1, splitInputs("50", "50"))
	assert.NoError(t, err)
	assert.Equal(t, "0.02", result.Receivables[0].Amount.String())
	assert.Equal(t, "0.03", result.Receivables[1].Amount.String())
}

func TestCalculateSplit_FeeRoundedHalfUp(t *testing.T) {
	// 10.01 * 3.99% = 0.399399 -> 0.40 under half-up rounding.
	result, err := CalculateSplit(decimal.RequireFromString("10.01"), PaymentMethodCard, 1, splitInputs("100"))
	assert.NoError(t, err)
	assert.Equal(t, "0.4", result.PlatformFeeAmount.String())
	assert.Equal(t, "9.61", result.NetAmount.String())
}

func TestCalculateSplit_NonPositiveNet(t *testing.T) {
	_, err := CalculateSplit(decimal.Zero, PaymentMethodPix, 1, splitInputs("100"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "greater than zero")
}

func TestCalculateSplit_InvalidMethodAndInstallments(t *testing.T) {
	_, err := CalculateSplit(decimal.RequireFromString("100.00"), "boleto", 1, splitInputs("100"))
	assert.Error(t, err)

	_, err = CalculateSplit(decimal.RequireFromString("100.00"), PaymentMethodCard, 13, splitInputs("100"))
	assert.Error(t, err)

	_, err = CalculateSplit(decimal.RequireFromString("100.00"), PaymentMethodPix, 2, splitInputs("100"))
	assert.Error(t, err)
}

func TestCalculateSplit_Deterministic(t *testing.T) {
	gross := decimal.RequireFromString("250.00")
	splits := splitInputs("70", "30")

	first, err := CalculateSplit(gross, PaymentMethodCard, 6, splits)
	assert.NoError(t, err)
	second, err := CalculateSplit(gross, PaymentMethodCard, 6, splits)
	assert.NoError(t, err)

	assert.True(t, first.PlatformFeeAmount.Equal(second.PlatformFeeAmount))
	assert.True(t, first.NetAmount.Equal(second.NetAmount))
	for i := range first.Receivables {
		assert.True(t, first.Receivables[i].Amount.Equal(second.Receivables[i].Amount))
	}
}
