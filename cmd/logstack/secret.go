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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testinfra/logstack/pkg/stack"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Secret creates the GCS backup key secret in the namespace.",
	Long: fmt.Sprintf(`Secret reads the base64-encoded service account key from
LOGSTACK_GCLOUD_KEY and stores it as the %q secret, which the
Elasticsearch snapshot repository mounts.`, stack.BackupSecretName),
	RunE: runSecretCmd,
}

func init() {
	rootCmd.AddCommand(secretCmd)
}

func runSecretCmd(cmd *cobra.Command, args []string) error {
	deployer, err := newDeployer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	return deployer.CreateBackupSecret(ctx, *kubeconfigArgs.Namespace, cfg.GCloudKey)
}
