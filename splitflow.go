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

	"github.com/splitflow/splitflow/config"
	"github.com/splitflow/splitflow/database"
)

// EventPublisher delivers outbox payloads to downstream consumers. Payloads
// are self-contained snapshots; a publisher never needs to look anything up.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Splitflow is the service layer: the idempotent payment-creation workflow and
// the outbox publisher on top of a datasource.
type Splitflow struct {
	datasource database.IDataSource
	publisher  EventPublisher
}

// NewSplitflow initializes a new instance of Splitflow with the provided
// database datasource. The Kafka publisher is wired only when brokers are
// configured; the API surface works without one, the outbox worker does not.
func NewSplitflow(db database.IDataSource) (*Splitflow, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var publisher EventPublisher
	if len(configuration.Outbox.KafkaBrokers) > 0 {
		publisher = NewKafkaPublisher(&configuration.Outbox)
	}

	return &Splitflow{datasource: db, publisher: publisher}, nil
}
