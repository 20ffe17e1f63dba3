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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/splitflow/splitflow/config"
)

// runOutboxWorker polls the outbox table and publishes pending events until
// the context is cancelled. A failing cycle is logged and retried on the next
// tick rather than stopping the worker.
func runOutboxWorker(ctx context.Context, b *splitflowInstance, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := b.splitflow.ProcessOutboxEvents(ctx)
			if err != nil {
				logrus.Errorf("outbox cycle failed: %v", err)
				continue
			}
			if published > 0 {
				logrus.Infof("published %d outbox events", published)
			}
		}
	}
}

// workerCommands defines the "workers" command that runs the outbox publisher.
func workerCommands(b *splitflowInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start splitflow workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pollInterval := time.Duration(conf.Outbox.PollIntervalSec) * time.Second
			log.Printf("Outbox worker polling every %s", pollInterval)
			runOutboxWorker(ctx, b, pollInterval)
		},
	}

	return cmd
}
