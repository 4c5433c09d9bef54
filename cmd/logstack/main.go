/*
Copyright 2024 The logstack authors

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
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"github.com/testinfra/logstack/pkg/config"
	"github.com/testinfra/logstack/pkg/logging"
)

var VERSION = "1.0.0-dev.0"

const PROJECT = "logstack"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A command line utility to deploy and tear down the logging stack in a test namespace.",
	Long: `Logstack deploys the Elasticsearch logging stack into a Kubernetes test
namespace and tears it down afterwards.

Deploy the stack or a single component:

- logstack deploy -n <namespace> [--component <name>] [--dir <path>] [--with-backup-secret]

Tear it down again:

- logstack destroy -n <namespace> [--component <name>] [--dir <path>] [--wait]

Provision the snapshot backup secret on its own:

- logstack secret -n <namespace>

Inspect the supported resource kinds:

- logstack kinds
`,
}

type rootFlags struct {
	timeout    time.Duration
	configPath string
}

var (
	rootArgs = rootFlags{}
	cfg      = &config.Config{}
	logger   = logging.NewLogger(os.Stderr, logging.LevelInfo)
)

var kubeconfigArgs = genericclioptions.NewConfigFlags(false)

func init() {
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", 5*time.Minute,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.configPath, "config", "",
		"Path to a YAML config file overriding the environment settings.")

	kubeconfigArgs.Timeout = nil
	kubeconfigArgs.Namespace = nil
	kubeconfigArgs.AddFlags(rootCmd.PersistentFlags())

	defaultNamespace := "default"
	kubeconfigArgs.Namespace = &defaultNamespace
	rootCmd.PersistentFlags().StringVarP(kubeconfigArgs.Namespace, "namespace", "n", *kubeconfigArgs.Namespace, "The namespace the stack is deployed into.")

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(rootArgs.configPath)
	if err != nil {
		return err
	}

	cfg = c
	logger = logging.NewLogger(rootCmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

	return nil
}
