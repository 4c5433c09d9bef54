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

package stack

import (
	"context"
	"fmt"

	"github.com/testinfra/logstack/pkg/dispatch"
)

// Component identifies one deployable piece of the logging stack.
type Component string

const (
	Elasticsearch Component = "elasticsearch"
	Filebeat      Component = "filebeat"
	FluentBit     Component = "fluent-bit"
	Kibana        Component = "kibana"
	Logstash      Component = "logstash"
)

// Components returns the stack components in deployment order: the search
// engine first, then the shippers, then the consumers.
func Components() []Component {
	return []Component{Elasticsearch, Filebeat, FluentBit, Kibana, Logstash}
}

// ParseComponent validates a component name.
func ParseComponent(name string) (Component, error) {
	for _, c := range Components() {
		if string(c) == name {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown component %q", name)
}

// DeployComponent applies the manifest directory configured for the component.
func (d *Deployer) DeployComponent(ctx context.Context, c Component, namespace string) (*dispatch.ChangeSet, error) {
	d.log.Info("deploying component", "component", string(c), "namespace", namespace)
	return d.Apply(ctx, namespace, d.cfg.ComponentDir(string(c)))
}

// RemoveComponent deletes the manifests of the component, in creation order.
// Log shippers additionally leave a cluster role binding behind, which is
// torn down separately.
func (d *Deployer) RemoveComponent(ctx context.Context, c Component, namespace string) (*dispatch.ChangeSet, error) {
	d.log.Info("removing component", "component", string(c), "namespace", namespace)

	changeSet, err := d.Delete(ctx, namespace, d.cfg.ComponentDir(string(c)))
	if err != nil {
		return nil, err
	}

	d.TeardownShipper(ctx, c, namespace)

	return changeSet, nil
}

// DeployStack applies every component of the logging stack in order.
func (d *Deployer) DeployStack(ctx context.Context, namespace string) (*dispatch.ChangeSet, error) {
	changeSet := dispatch.NewChangeSet()
	for _, c := range Components() {
		cs, err := d.DeployComponent(ctx, c, namespace)
		if err != nil {
			return nil, err
		}
		changeSet.Append(cs.Entries)
	}

	return changeSet, nil
}

// RemoveStack deletes every component of the logging stack, in the same
// order as deployment.
func (d *Deployer) RemoveStack(ctx context.Context, namespace string) (*dispatch.ChangeSet, error) {
	changeSet := dispatch.NewChangeSet()
	for _, c := range Components() {
		cs, err := d.RemoveComponent(ctx, c, namespace)
		if err != nil {
			return nil, err
		}
		changeSet.Append(cs.Entries)
	}

	return changeSet, nil
}

// shipperBindingName returns the cluster role binding a shipper's manifests
// create for the namespace. The two shippers use slightly different naming
// schemes, mirrored from their manifest files.
func shipperBindingName(c Component, namespace string) (string, bool) {
	switch c {
	case Filebeat:
		return fmt.Sprintf("filebeat-cluster-role-binding-%s", namespace), true
	case FluentBit:
		return fmt.Sprintf("fluent-bit-clusterrole-binding-%s", namespace), true
	}

	return "", false
}

// TeardownShipper removes the cluster role binding a log shipper leaves
// behind. The binding is cluster-scoped, so namespace deletion does not
// collect it. A failed deletion is logged rather than propagated so the
// binding can be removed by hand.
func (d *Deployer) TeardownShipper(ctx context.Context, c Component, namespace string) {
	name, ok := shipperBindingName(c, namespace)
	if !ok {
		return
	}

	if err := d.dispatcher.DeleteByName(ctx, "ClusterRoleBinding", "", name); err != nil {
		d.log.Warn("cluster role binding deletion failed, delete it manually",
			"shipper", string(c), "name", name, "error", err)
		return
	}

	d.log.Info("cluster role binding deleted", "shipper", string(c), "name", name)
}
