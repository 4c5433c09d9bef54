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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testinfra/logstack/pkg/dispatch"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Kinds prints the resource kinds the deployer handles.",
	RunE:  runKindsCmd,
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

func runKindsCmd(cmd *cobra.Command, args []string) error {
	var rows [][]string
	for _, info := range dispatch.KnownKinds() {
		rows = append(rows, []string{
			info.Kind,
			fmt.Sprintf("%v", info.ClusterScoped),
			fmt.Sprintf("%v", info.TolerateExisting),
		})
	}

	printTable(rootCmd.OutOrStdout(), []string{"kind", "cluster scoped", "tolerates existing"}, rows)

	return nil
}
