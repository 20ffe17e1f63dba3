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
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/splitflow/splitflow/config"
	"github.com/splitflow/splitflow/internal/notification"
	"github.com/splitflow/splitflow/model"
)

// KafkaPublisher writes outbox payloads to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(conf *config.OutboxConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(conf.KafkaBrokers...),
			Topic:    conf.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish keys the message by payment id so all events for one payment land
// on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ProcessOutboxEvents drains one batch of pending outbox events. Each event is
// published and individually transitioned to published, or to failed when the
// broker rejects it; one bad event never blocks the rest of the batch. The
// returned count is the number of events published.
func (l *Splitflow) ProcessOutboxEvents(ctx context.Context) (int, error) {
	if l.publisher == nil {
		return 0, errors.New("no event publisher configured")
	}

	conf, err := config.Fetch()
	if err != nil {
		return 0, err
	}

	events, err := l.datasource.GetPendingOutboxEvents(ctx, conf.Outbox.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := l.publisher.Publish(ctx, event.PaymentID, event.Payload); err != nil {
			notification.NotifyError(fmt.Errorf("publishing outbox event %s: %w", event.EventID, err))
			if updateErr := l.datasource.UpdateOutboxEventStatus(ctx, event.EventID, model.EventStatusFailed); updateErr != nil {
				logrus.Error(updateErr)
			}
			continue
		}

		if err := l.datasource.UpdateOutboxEventStatus(ctx, event.EventID, model.EventStatusPublished); err != nil {
			// The message is already on the broker; the row stays pending and
			// will be re-published. Consumers must tolerate duplicates.
			logrus.Error(err)
			continue
		}
		published++
	}

	return published, nil
}
