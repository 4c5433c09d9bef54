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

// Package stack orchestrates the ordered deployment and teardown of the
// logging-stack manifests into a test namespace.
package stack

import (
	"context"
	"log/slog"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"

	"github.com/testinfra/logstack/pkg/config"
	"github.com/testinfra/logstack/pkg/dispatch"
	"github.com/testinfra/logstack/pkg/manifest"
)

// Deployer walks an ordered manifest directory and applies or deletes each
// document in sequence. Each pass is independent and stateless; nothing is
// cached or retried across passes.
type Deployer struct {
	client     dynamic.Interface
	dispatcher *dispatch.Dispatcher
	cfg        *config.Config
	log        *slog.Logger
}

// NewDeployer creates a Deployer over the given cluster API capability.
func NewDeployer(client dynamic.Interface, cfg *config.Config, log *slog.Logger) *Deployer {
	if log == nil {
		log = slog.Default()
	}

	return &Deployer{
		client:     client,
		dispatcher: dispatch.NewDispatcher(client),
		cfg:        cfg,
		log:        log,
	}
}

type dispatchOp func(ctx context.Context, object *unstructured.Unstructured, namespace string) (*dispatch.ChangeSetEntry, error)

// Apply creates every manifest listed by the directory's ordering file, in
// file order. Conflicts on Service and ClusterRole creation are treated as
// success; any other failure aborts the pass, leaving the remaining entries
// unprocessed. Already-applied entries are not rolled back.
func (d *Deployer) Apply(ctx context.Context, namespace, dir string) (*dispatch.ChangeSet, error) {
	return d.run(ctx, namespace, dir, d.dispatcher.Create)
}

// Delete removes every manifest listed by the ordering file. Entries are
// processed in the same order as creation, not reversed; the ordering file
// is the single source of sequencing for both directions.
func (d *Deployer) Delete(ctx context.Context, namespace, dir string) (*dispatch.ChangeSet, error) {
	return d.run(ctx, namespace, dir, d.dispatcher.Delete)
}

// DeleteWithWait removes the manifests like Delete and additionally polls
// Service deletions until the object disappears from the listing, re-issuing
// the delete on each unsatisfied poll.
func (d *Deployer) DeleteWithWait(ctx context.Context, namespace, dir string) (*dispatch.ChangeSet, error) {
	op := func(ctx context.Context, object *unstructured.Unstructured, ns string) (*dispatch.ChangeSetEntry, error) {
		change, err := d.dispatcher.Delete(ctx, object, ns)
		if err != nil {
			return nil, err
		}
		if object.GetKind() == "Service" {
			if err := d.dispatcher.WaitForDeletion(ctx, "Service", ns, object.GetName(),
				d.cfg.PollInterval, d.cfg.DeleteBudget); err != nil {
				return nil, err
			}
		}
		return change, nil
	}

	return d.run(ctx, namespace, dir, op)
}

func (d *Deployer) run(ctx context.Context, namespace, dir string, op dispatchOp) (*dispatch.ChangeSet, error) {
	entries, err := manifest.ReadOrder(dir)
	if err != nil {
		return nil, err
	}

	changeSet := dispatch.NewChangeSet()
	for _, filename := range entries {
		object, _, err := manifest.Load(dir, filename, namespace)
		if err != nil {
			return nil, err
		}

		change, err := op(ctx, object, namespace)
		if err != nil {
			d.log.Error("manifest dispatch failed",
				"file", filename,
				"kind", object.GetKind(),
				"name", object.GetName(),
				"error", err)
			return nil, err
		}

		d.log.Info(change.Action, "resource", change.Subject, "file", filename)
		changeSet.Add(*change)
	}

	return changeSet, nil
}
