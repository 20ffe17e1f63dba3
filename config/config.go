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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "4100"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"SPLITFLOW_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"SPLITFLOW_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"SPLITFLOW_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"SPLITFLOW_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"SPLITFLOW_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"SPLITFLOW_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"SPLITFLOW_DATA_SOURCE_DNS"`
}

// OutboxConfig drives the outbox publisher worker: which Kafka topic captured
// payments are published to, and how the pending table is polled.
type OutboxConfig struct {
	KafkaBrokers    []string `json:"kafka_brokers" envconfig:"SPLITFLOW_OUTBOX_KAFKA_BROKERS"`
	KafkaTopic      string   `json:"kafka_topic" envconfig:"SPLITFLOW_OUTBOX_KAFKA_TOPIC"`
	PollIntervalSec int      `json:"poll_interval_sec" envconfig:"SPLITFLOW_OUTBOX_POLL_INTERVAL_SEC"`
	BatchSize       int      `json:"batch_size" envconfig:"SPLITFLOW_OUTBOX_BATCH_SIZE"`
}

// RateLimitConfig caps request throughput on the API. Nil values disable
// rate limiting entirely.
type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"SPLITFLOW_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"SPLITFLOW_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"SPLITFLOW_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"SPLITFLOW_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"SPLITFLOW_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Outbox       OutboxConfig     `json:"outbox"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("splitflow", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called splitflow.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Splitflow Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Outbox.KafkaTopic == "" {
		cnf.Outbox.KafkaTopic = "splitflow.payments.captured"
	}

	if cnf.Outbox.PollIntervalSec <= 0 {
		cnf.Outbox.PollIntervalSec = 5
	}

	if cnf.Outbox.BatchSize <= 0 {
		cnf.Outbox.BatchSize = 100
	}

	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst != nil && cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
