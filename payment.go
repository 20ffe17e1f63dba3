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

package splitflow

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitflow/splitflow/internal/apierror"
	"github.com/splitflow/splitflow/model"
)

// PaymentRequest is the structurally validated input to the creation workflow.
type PaymentRequest struct {
	GrossAmount   decimal.Decimal
	PaymentMethod string
	Installments  int
	Splits        []model.SplitInput
}

// CreatePayment is the idempotent payment-creation workflow. For a new
// idempotency key it computes the split and records the payment, its ledger
// entries and its outbox event in one atomic write. For a key that already
// exists with the same gross amount it reconstructs the original response
// without writing. The same key with a different amount is a conflict.
//
// The unique index on idempotency_key is the only cross-request coordination:
// a request that loses the insert race is recovered transparently by
// re-reading the winning payment instead of surfacing the constraint error.
//
// The returned bool reports whether a new payment was captured by this call.
func (l *Splitflow) CreatePayment(ctx context.Context, idempotencyKey string, req *PaymentRequest) (*model.PaymentView, bool, error) {
	if idempotencyKey == "" {
		return nil, false, apierror.NewAPIError(apierror.ErrBadRequest, "Idempotency key is required", nil)
	}

	existing, err := l.datasource.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		view, replayErr := l.replayPayment(ctx, existing, req.GrossAmount)
		return view, false, replayErr
	}
	if !apierror.IsCode(err, apierror.ErrNotFound) {
		return nil, false, err
	}

	result, calcErr := model.CalculateSplit(req.GrossAmount, req.PaymentMethod, req.Installments, req.Splits)
	if calcErr != nil {
		return nil, false, apierror.NewAPIError(apierror.ErrInvalidInput, calcErr.Error(), calcErr)
	}

	now := time.Now()
	payment := &model.Payment{
		PaymentID:         model.GenerateUUIDWithSuffix("pay"),
		IdempotencyKey:    idempotencyKey,
		GrossAmount:       result.GrossAmount,
		PlatformFeeAmount: result.PlatformFeeAmount,
		NetAmount:         result.NetAmount,
		PaymentMethod:     req.PaymentMethod,
		Installments:      req.Installments,
		Status:            model.PaymentStatusCaptured,
		CreatedAt:         now,
	}

	entries := make([]model.LedgerEntry, 0, len(result.Receivables))
	for _, receivable := range result.Receivables {
		entries = append(entries, model.LedgerEntry{
			EntryID:     model.GenerateUUIDWithSuffix("led"),
			PaymentID:   payment.PaymentID,
			RecipientID: receivable.RecipientID,
			Role:        receivable.Role,
			Amount:      receivable.Amount,
			CreatedAt:   now,
		})
	}

	view := assemblePaymentView(payment, result.Receivables, &model.OutboxEventView{
		Type:   model.EventTypePaymentCaptured,
		Status: model.EventStatusPending,
	})
	payload, marshalErr := view.ToJSON()
	if marshalErr != nil {
		return nil, false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal outbox payload", marshalErr)
	}

	event := &model.OutboxEvent{
		EventID:   model.GenerateUUIDWithSuffix("evt"),
		PaymentID: payment.PaymentID,
		EventType: model.EventTypePaymentCaptured,
		Payload:   payload,
		Status:    model.EventStatusPending,
		CreatedAt: now,
	}

	_, writeErr := l.datasource.RecordPayment(ctx, payment, entries, event)
	if writeErr != nil {
		if apierror.IsCode(writeErr, apierror.ErrConflict) {
			// Lost the idempotency race: a concurrent request with the same
			// key committed first. Fall into the existing-key branch.
			winner, fetchErr := l.datasource.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
			if fetchErr != nil {
				return nil, false, fetchErr
			}
			replayView, replayErr := l.replayPayment(ctx, winner, req.GrossAmount)
			return replayView, false, replayErr
		}
		return nil, false, writeErr
	}

	return view, true, nil
}

// GetPayment returns the stored view of a captured payment.
func (l *Splitflow) GetPayment(ctx context.Context, id string) (*model.PaymentView, error) {
	payment, err := l.datasource.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.loadPaymentView(ctx, payment)
}

// replayPayment rebuilds the original response for an idempotent retry. The
// requested amount must match the stored gross amount exactly; the same key
// with a different amount is a client error, not a retry.
func (l *Splitflow) replayPayment(ctx context.Context, payment *model.Payment, requestedGross decimal.Decimal) (*model.PaymentView, error) {
	if !payment.GrossAmount.Equal(requestedGross) {
		return nil, apierror.NewAPIError(apierror.ErrConflict, "Amount mismatch for idempotent request", nil)
	}
	return l.loadPaymentView(ctx, payment)
}

func (l *Splitflow) loadPaymentView(ctx context.Context, payment *model.Payment) (*model.PaymentView, error) {
	entries, err := l.datasource.GetLedgerEntriesByPaymentID(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}

	receivables := make([]model.Receivable, 0, len(entries))
	for _, entry := range entries {
		receivables = append(receivables, model.Receivable{
			RecipientID: entry.RecipientID,
			Role:        entry.Role,
			Amount:      entry.Amount,
		})
	}

	var eventView *model.OutboxEventView
	event, err := l.datasource.GetOutboxEventByPaymentID(ctx, payment.PaymentID)
	if err == nil {
		eventView = &model.OutboxEventView{Type: event.EventType, Status: event.Status}
	} else if !apierror.IsCode(err, apierror.ErrNotFound) {
		return nil, err
	}

	return assemblePaymentView(payment, receivables, eventView), nil
}

func assemblePaymentView(payment *model.Payment, receivables []model.Receivable, event *model.OutboxEventView) *model.PaymentView {
	return &model.PaymentView{
		PaymentID:         payment.PaymentID,
		Status:            payment.Status,
		GrossAmount:       payment.GrossAmount,
		PlatformFeeAmount: payment.PlatformFeeAmount,
		NetAmount:         payment.NetAmount,
		Receivables:       receivables,
		OutboxEvent:       event,
	}
}
