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

	"github.com/splitflow/splitflow/internal/apierror"
	"github.com/splitflow/splitflow/model"
)

func (d Datasource) GetOutboxEventByPaymentID(ctx context.Context, paymentID string) (*model.OutboxEvent, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT event_id, payment_id, event_type, payload, status, created_at, published_at
		FROM outbox_events
		WHERE payment_id = $1
	`, paymentID)

	event := &model.OutboxEvent{}
	var payload []byte
	err := row.Scan(&event.EventID, &event.PaymentID, &event.EventType, &payload, &event.Status, &event.CreatedAt, &event.PublishedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Outbox event for payment '%s' not found", paymentID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve outbox event", err)
	}
	event.Payload = payload

	return event, nil
}

// GetPendingOutboxEvents returns pending events oldest first. Each row is a
// self-contained payload snapshot; publishing needs no further joins.
func (d Datasource) GetPendingOutboxEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT event_id, payment_id, event_type, payload, status, created_at, published_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve pending outbox events", err)
	}
	defer rows.Close()

	events := []*model.OutboxEvent{}

	for rows.Next() {
		event := &model.OutboxEvent{}
		var payload []byte
		err = rows.Scan(&event.EventID, &event.PaymentID, &event.EventType, &payload, &event.Status, &event.CreatedAt, &event.PublishedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan outbox event data", err)
		}
		event.Payload = payload
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over outbox events", err)
	}

	return events, nil
}

// UpdateOutboxEventStatus transitions an outbox event to published or failed.
// published_at is stamped only on the pending -> published transition.
func (d Datasource) UpdateOutboxEventStatus(ctx context.Context, eventID string, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE outbox_events
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN NOW() ELSE published_at END
		WHERE event_id = $1
	`, eventID, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update outbox event status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Outbox event with ID '%s' not found", eventID), nil)
	}

	return nil
}
