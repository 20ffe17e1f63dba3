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

package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/splitflow/splitflow/config"
)

// SlackNotification sends an error message to a Slack webhook.
// It formats the error details and the current time into a Slack message payload.
func SlackNotification(err error) {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Error From Splitflow 🐞",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%v"
					}
				]
			}
		]
	}`, err.Error(), time.Now().Format(time.RFC822)))

	conf, fetchErr := config.Fetch()
	if fetchErr != nil {
		logrus.Error(fetchErr)
		return
	}

	if conf.Notification.Slack.WebhookUrl == "" {
		return
	}

	resp, postErr := http.Post(conf.Notification.Slack.WebhookUrl, "application/json", bytes.NewReader(data))
	if postErr != nil {
		logrus.Error(postErr)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logrus.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
}

// NotifyError logs an error and forwards it to the configured Slack webhook.
// Notification failures are logged and swallowed; they never affect the caller.
func NotifyError(err error) {
	logrus.Error(err)
	go SlackNotification(err)
}
