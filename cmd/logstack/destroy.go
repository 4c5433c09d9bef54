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

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy deletes the logging stack manifests from the namespace.",
	RunE:  runDestroyCmd,
}

type destroyFlags struct {
	component string
	dir       string
	wait      bool
}

var destroyArgs destroyFlags

func init() {
	destroyCmd.Flags().StringVarP(&destroyArgs.component, "component", "c", "",
		"destroy a single stack component instead of the whole stack")
	destroyCmd.Flags().StringVarP(&destroyArgs.dir, "dir", "d", "",
		"destroy an ordered manifest directory (can't be used together with -c)")
	destroyCmd.Flags().BoolVar(&destroyArgs.wait, "wait", false,
		"re-issue service deletions until the objects are gone from the listing")

	rootCmd.AddCommand(destroyCmd)
}

func runDestroyCmd(cmd *cobra.Command, args []string) error {
	if destroyArgs.component != "" && destroyArgs.dir != "" {
		return fmt.Errorf("-c and -d are mutually exclusive")
	}

	var component stack.Component
	if destroyArgs.component != "" {
		var err error
		if component, err = stack.ParseComponent(destroyArgs.component); err != nil {
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
	case destroyArgs.dir != "":
		if destroyArgs.wait {
			changeSet, err = deployer.DeleteWithWait(ctx, namespace, destroyArgs.dir)
		} else {
			changeSet, err = deployer.Delete(ctx, namespace, destroyArgs.dir)
		}
	case destroyArgs.component != "":
		changeSet, err = destroyComponent(ctx, deployer, component, namespace)
	default:
		changeSet = dispatch.NewChangeSet()
		for _, component := range stack.Components() {
			var cs *dispatch.ChangeSet
			cs, err = destroyComponent(ctx, deployer, component, namespace)
			if err != nil {
				break
			}
			changeSet.Append(cs.Entries)
		}
	}
	if err != nil {
		return err
	}

	printTable(rootCmd.OutOrStdout(), []string{"resource", "action"}, changeSetRows(changeSet))

	return nil
}

func destroyComponent(ctx context.Context, deployer *stack.Deployer, c stack.Component, namespace string) (*dispatch.ChangeSet, error) {
	if !destroyArgs.wait {
		return deployer.RemoveComponent(ctx, c, namespace)
	}

	changeSet, err := deployer.DeleteWithWait(ctx, namespace, cfg.ComponentDir(string(c)))
	if err != nil {
		return nil, err
	}
	deployer.TeardownShipper(ctx, c, namespace)

	return changeSet, nil
}
