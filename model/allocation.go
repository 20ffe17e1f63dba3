package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// AllocateNet distributes netAmount across the splits in input order. Every
// split except the last is truncated toward zero at the cent, so no recipient
// is ever overpaid by rounding. The last split by input order receives
// whatever remains, absorbing the accumulated rounding remainder. The
// distributed total therefore always equals netAmount exactly.
func AllocateNet(netAmount decimal.Decimal, splits []SplitInput) ([]Receivable, error) {
	if len(splits) == 0 {
		return nil, errors.New("at least one split is required")
	}

	receivables := make([]Receivable, 0, len(splits))
	distributed := decimal.Zero

	for i, split := range splits {
		var amount decimal.Decimal
		if i == len(splits)-1 {
			amount = netAmount.Sub(distributed)
		} else {
			amount = netAmount.Mul(split.Percent).Div(hundred).RoundDown(2)
		}

		if amount.IsNegative() {
			return nil, fmt.Errorf("allocation for recipient %s resolves to a negative amount", split.RecipientID)
		}

		receivables = append(receivables, Receivable{
			RecipientID: split.RecipientID,
			Role:        split.Role,
			Amount:      amount,
		})
		distributed = distributed.Add(amount)
	}

	return receivables, nil
}
