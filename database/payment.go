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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/splitflow/splitflow/internal/apierror"
	"github.com/splitflow/splitflow/model"
)

// RecordPayment persists a payment, its ledger entries and its outbox event as
// one atomic unit. Either all three land in the same commit or none do. A
// unique violation on idempotency_key is surfaced as a conflict so the caller
// can recover by re-reading the winning payment.
func (d Datasource) RecordPayment(ctx context.Context, payment *model.Payment, entries []model.LedgerEntry, event *model.OutboxEvent) (*model.Payment, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (payment_id, idempotency_key, gross_amount, platform_fee_amount, net_amount, payment_method, installments, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, payment.PaymentID, payment.IdempotencyKey, payment.GrossAmount, payment.PlatformFeeAmount, payment.NetAmount, payment.PaymentMethod, payment.Installments, payment.Status, payment.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Payment with this idempotency key already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record payment", err)
	}

	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ledger_entries (entry_id, payment_id, recipient_id, role, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.EntryID, entry.PaymentID, entry.RecipientID, entry.Role, entry.Amount, entry.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record ledger entry", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (event_id, payment_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.EventID, event.PaymentID, event.EventType, []byte(event.Payload), event.Status, event.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record outbox event", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit payment transaction", err)
	}

	return payment, nil
}

func (d Datasource) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*model.Payment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, idempotency_key, gross_amount, platform_fee_amount, net_amount, payment_method, installments, status, created_at
		FROM payments
		WHERE idempotency_key = $1
	`, key)

	payment := &model.Payment{}
	err := row.Scan(&payment.PaymentID, &payment.IdempotencyKey, &payment.GrossAmount, &payment.PlatformFeeAmount, &payment.NetAmount, &payment.PaymentMethod, &payment.Installments, &payment.Status, &payment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment with idempotency key '%s' not found", key), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment", err)
	}

	return payment, nil
}

func (d Datasource) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, idempotency_key, gross_amount, platform_fee_amount, net_amount, payment_method, installments, status, created_at
		FROM payments
		WHERE payment_id = $1
	`, id)

	payment := &model.Payment{}
	err := row.Scan(&payment.PaymentID, &payment.IdempotencyKey, &payment.GrossAmount, &payment.PlatformFeeAmount, &payment.NetAmount, &payment.PaymentMethod, &payment.Installments, &payment.Status, &payment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Payment with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve payment", err)
	}

	return payment, nil
}

func (d Datasource) GetLedgerEntriesByPaymentID(ctx context.Context, paymentID string) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT entry_id, payment_id, recipient_id, role, amount, created_at
		FROM ledger_entries
		WHERE payment_id = $1
		ORDER BY id ASC
	`, paymentID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve ledger entries", err)
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}

	for rows.Next() {
		entry := model.LedgerEntry{}
		err = rows.Scan(&entry.EntryID, &entry.PaymentID, &entry.RecipientID, &entry.Role, &entry.Amount, &entry.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan ledger entry data", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over ledger entries", err)
	}

	return entries, nil
}
