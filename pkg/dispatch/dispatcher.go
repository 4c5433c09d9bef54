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

package dispatch

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
)

// Dispatcher resolves a manifest document's declared kind to the matching
// remote create or delete operation. It performs exactly one mutating call
// per invocation and holds no state between calls.
type Dispatcher struct {
	client dynamic.Interface
	fmt    *ResourceFormatter
}

// NewDispatcher creates a Dispatcher over the given cluster API capability.
func NewDispatcher(client dynamic.Interface) *Dispatcher {
	return &Dispatcher{
		client: client,
		fmt:    &ResourceFormatter{},
	}
}

// Create invokes the create operation matching the document's kind in the
// target namespace. Kinds outside the supported set are skipped. Service and
// ClusterRole creation treats an already-exists conflict as idempotent
// success; any other failure is returned as fatal.
func (d *Dispatcher) Create(ctx context.Context, object *unstructured.Unstructured, namespace string) (*ChangeSetEntry, error) {
	m, ok := kinds[object.GetKind()]
	if !ok {
		return d.changeSetEntry(object, namespace, SkippedAction), nil
	}

	if object.GetKind() == "RoleBinding" {
		if err := rewriteSubjectNamespace(object, namespace); err != nil {
			return nil, fmt.Errorf("%s subject rewrite failed: %w", d.entrySubject(object, namespace), err)
		}
	}

	_, err := d.resource(m, namespace).Create(ctx, object, metav1.CreateOptions{})
	if err != nil {
		if m.tolerateExisting && apierrors.IsAlreadyExists(err) {
			return d.changeSetEntry(object, namespace, ExistingAction), nil
		}
		return nil, fmt.Errorf("%s create failed: %w", d.entrySubject(object, namespace), err)
	}

	return d.changeSetEntry(object, namespace, CreatedAction), nil
}

// Delete invokes the delete operation matching the document's kind, addressed
// by metadata.name and the target namespace. Kinds outside the supported set
// are skipped. A not-found condition is not specially handled here; callers
// that need retry-until-gone semantics use WaitForDeletion.
func (d *Dispatcher) Delete(ctx context.Context, object *unstructured.Unstructured, namespace string) (*ChangeSetEntry, error) {
	m, ok := kinds[object.GetKind()]
	if !ok {
		return d.changeSetEntry(object, namespace, SkippedAction), nil
	}

	if err := d.resource(m, namespace).Delete(ctx, object.GetName(), metav1.DeleteOptions{}); err != nil {
		return nil, fmt.Errorf("%s delete failed: %w", d.entrySubject(object, namespace), err)
	}

	return d.changeSetEntry(object, namespace, DeletedAction), nil
}

// DeleteByName removes a single resource of the given kind addressed by name.
func (d *Dispatcher) DeleteByName(ctx context.Context, kind, namespace, name string) error {
	m, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unsupported kind %q", kind)
	}

	if err := d.resource(m, namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("%s delete failed: %w", d.subject(m, kind, namespace, name), err)
	}

	return nil
}

func (d *Dispatcher) resource(m mapping, namespace string) dynamic.ResourceInterface {
	if m.clusterScoped {
		return d.client.Resource(m.gvr)
	}

	return d.client.Resource(m.gvr).Namespace(namespace)
}

func (d *Dispatcher) subject(m mapping, kind, namespace, name string) string {
	if m.clusterScoped {
		namespace = ""
	}

	return d.fmt.Resource(kind, namespace, name)
}

func (d *Dispatcher) entrySubject(object *unstructured.Unstructured, namespace string) string {
	if m, ok := kinds[object.GetKind()]; ok && m.clusterScoped {
		namespace = ""
	}

	return d.fmt.Resource(object.GetKind(), namespace, object.GetName())
}

func (d *Dispatcher) changeSetEntry(object *unstructured.Unstructured, namespace string, action Action) *ChangeSetEntry {
	return &ChangeSetEntry{
		Subject: d.entrySubject(object, namespace),
		Action:  string(action),
	}
}

// rewriteSubjectNamespace points a role binding's first subject at the target
// namespace, matching the manifests which declare their subjects against a
// placeholder namespace.
func rewriteSubjectNamespace(object *unstructured.Unstructured, namespace string) error {
	subjects, found, err := unstructured.NestedSlice(object.Object, "subjects")
	if err != nil || !found || len(subjects) == 0 {
		return err
	}

	subject, ok := subjects[0].(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected subject type %T", subjects[0])
	}
	subject["namespace"] = namespace

	return unstructured.SetNestedSlice(object.Object, subjects, "subjects")
}
