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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/splitflow/splitflow"
	"github.com/splitflow/splitflow/config"
	"github.com/splitflow/splitflow/database"
	"github.com/splitflow/splitflow/internal/notification"
)

// Splitflow represents the CLI application, encapsulating the root Cobra command.
type Splitflow struct {
	cmd *cobra.Command
}

// splitflowInstance holds the service instance and its configuration so that
// subcommands share one initialized datasource.
type splitflowInstance struct {
	splitflow *splitflow.Splitflow
	cnf       *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the service instance before
// running any command.
func preRun(app *splitflowInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("splitflow.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newSplitflow, err := setupSplitflow(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.splitflow = newSplitflow
		app.cnf = cnf

		return nil
	}
}

// setupSplitflow connects to the data source and builds the service layer on
// top of it.
func setupSplitflow(cfg *config.Configuration) (*splitflow.Splitflow, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newSplitflow, err := splitflow.NewSplitflow(db)
	if err != nil {
		return nil, fmt.Errorf("error creating splitflow: %v", err)
	}
	return newSplitflow, nil
}

// NewCLI creates the command-line interface for the payment-split server.
func NewCLI() *Splitflow {
	var configFile string
	b := &splitflowInstance{}

	var rootCmd = &cobra.Command{
		Use:   "splitflow",
		Short: "Payment capture and split engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./splitflow.json", "Configuration file for splitflow")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))

	return &Splitflow{cmd: rootCmd}
}

func (w Splitflow) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
