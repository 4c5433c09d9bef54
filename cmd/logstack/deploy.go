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

	"github.com/testinfra/logstack/pkg/dispatch"
	"github.com/testinfra/logstack/pkg/stack"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy applies the logging stack manifests to the namespace.",
	RunE:  runDeployCmd,
}

type deployFlags struct {
	component        string
	dir              string
	withBackupSecret bool
}

var deployArgs deployFlags

func init() {
	deployCmd.Flags().StringVarP(&deployArgs.component, "component", "c", "",
		"deploy a single stack component instead of the whole stack")
	deployCmd.Flags().StringVarP(&deployArgs.dir, "dir", "d", "",
		"deploy an ordered manifest directory (can't be used together with -c)")
	deployCmd.Flags().BoolVar(&deployArgs.withBackupSecret, "with-backup-secret", false,
		"also create the GCS backup key secret from LOGSTACK_GCLOUD_KEY")

	rootCmd.AddCommand(deployCmd)
}

func runDeployCmd(cmd *cobra.Command, args []string) error {
	if deployArgs.component != "" && deployArgs.dir != "" {
		return fmt.Errorf("-c and -d are mutually exclusive")
	}

	var component stack.Component
	if deployArgs.component != "" {
		var err error
		if component, err = stack.ParseComponent(deployArgs.component); err != nil {
			return err
		}
	}

	deployer, err := newDeployer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	namespace := *kubeconfigArgs.Namespace

	var changeSet *dispatch.ChangeSet
	switch {
	case deployArgs.dir != "":
		changeSet, err = deployer.Apply(ctx, namespace, deployArgs.dir)
	case deployArgs.component != "":
		changeSet, err = deployer.DeployComponent(ctx, component, namespace)
	default:
		changeSet, err = deployer.DeployStack(ctx, namespace)
	}
	if err != nil {
		return err
	}

	if deployArgs.withBackupSecret {
		if err := deployer.CreateBackupSecret(ctx, namespace, cfg.GCloudKey); err != nil {
			return err
		}
	}

	printTable(rootCmd.OutOrStdout(), []string{"resource", "action"}, changeSetRows(changeSet))

	return nil
}
