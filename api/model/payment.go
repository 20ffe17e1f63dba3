/*
Copyright 2024 Splitflow Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/splitflow/splitflow"
	"github.com/splitflow/splitflow/model"
)

// CreatePaymentRequest is the JSON body of POST /payments. Amounts and
// percentages are decimal strings; float64 never touches money.
type CreatePaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Installments  int             `json:"installments"`
	Splits        []SplitRule     `json:"splits"`
}

type SplitRule struct {
	RecipientID string          `json:"recipient_id"`
	Role        string          `json:"role"`
	Percent     decimal.Decimal `json:"percent"`
}

var hundred = decimal.NewFromInt(100)

func (p *CreatePaymentRequest) ValidateCreatePayment() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Amount, validation.By(func(value interface{}) error {
			amount, ok := value.(decimal.Decimal)
			if !ok || amount.LessThanOrEqual(decimal.Zero) {
				return errors.New("amount must be greater than zero")
			}
			if amount.Exponent() < -2 {
				return errors.New("amount must have at most two decimal places")
			}
			return nil
		})),
		validation.Field(&p.Currency, validation.Required, validation.In("BRL")),
		validation.Field(&p.PaymentMethod, validation.Required, validation.In(model.PaymentMethodPix, model.PaymentMethodCard)),
		validation.Field(&p.Installments, validation.Min(0), validation.Max(12)),
		validation.Field(&p.Splits, validation.Required, validation.Length(1, 5), validation.By(validateSplitRules(p))),
	)
}

func validateSplitRules(p *CreatePaymentRequest) validation.RuleFunc {
	return func(value interface{}) error {
		seen := make(map[string]bool, len(p.Splits))
		total := decimal.Zero
		for _, rule := range p.Splits {
			if rule.RecipientID == "" {
				return errors.New("split recipient_id is required")
			}
			if rule.Role == "" {
				return errors.New("split role is required")
			}
			if seen[rule.RecipientID] {
				return errors.New("duplicate split recipient: " + rule.RecipientID)
			}
			seen[rule.RecipientID] = true
			if rule.Percent.LessThanOrEqual(decimal.Zero) || rule.Percent.GreaterThan(hundred) {
				return errors.New("split percent must be greater than zero and at most 100")
			}
			total = total.Add(rule.Percent)
		}
		if !total.Equal(hundred) {
			return errors.New("split percentages must sum to exactly 100, got " + total.String())
		}
		return nil
	}
}

// ToPaymentRequest converts the request body to the service-layer input.
// A missing installments field means a single installment.
func (p *CreatePaymentRequest) ToPaymentRequest() *splitflow.PaymentRequest {
	installments := p.Installments
	if installments == 0 {
		installments = 1
	}
	splits := make([]model.SplitInput, 0, len(p.Splits))
	for _, rule := range p.Splits {
		splits = append(splits, model.SplitInput{
			RecipientID: rule.RecipientID,
			Role:        rule.Role,
			Percent:     rule.Percent,
		})
	}
	return &splitflow.PaymentRequest{
		GrossAmount:   p.Amount,
		PaymentMethod: p.PaymentMethod,
		Installments:  installments,
		Splits:        splits,
	}
}
