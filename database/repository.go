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

	"github.com/splitflow/splitflow/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	payment // Interface for payment-related operations
	outbox  // Interface for outbox-related operations
}

// payment defines methods for handling payments and their ledger entries.
type payment interface {
	RecordPayment(ctx context.Context, payment *model.Payment, entries []model.LedgerEntry, event *model.OutboxEvent) (*model.Payment, error) // Records a payment, its ledger entries and its outbox event in one transaction
	GetPaymentByIdempotencyKey(ctx context.Context, key string) (*model.Payment, error)                                                      // Retrieves a payment by idempotency key
	GetPayment(ctx context.Context, id string) (*model.Payment, error)                                                                       // Retrieves a payment by ID
	GetLedgerEntriesByPaymentID(ctx context.Context, paymentID string) ([]model.LedgerEntry, error)                                          // Retrieves the ledger entries owned by a payment
}

// outbox defines methods for the durable outbox event queue.
type outbox interface {
	GetOutboxEventByPaymentID(ctx context.Context, paymentID string) (*model.OutboxEvent, error) // Retrieves the outbox event recorded with a payment's capture
	GetPendingOutboxEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)         // Retrieves pending outbox events oldest first
	UpdateOutboxEventStatus(ctx context.Context, eventID string, status string) error            // Transitions an outbox event to published or failed
}
