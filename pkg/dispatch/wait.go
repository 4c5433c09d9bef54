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
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TimeoutError is returned when the deletion poll budget is exhausted while
// the resource is still listed.
type TimeoutError struct {
	Budget  int
	Subject string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%d attempt(s) were not enough to delete %s", e.Budget, e.Subject)
}

// WaitForDeletion polls the resource listing until the named object is no
// longer present. Every unsatisfied poll re-issues the delete before sleeping
// one interval: delete requests against a busy control plane can be dropped
// or superseded, and deleting an absent name is a no-op at the remote layer.
// The attempt budget bounds the loop; exhausting it returns a TimeoutError.
func (d *Dispatcher) WaitForDeletion(ctx context.Context, kind, namespace, name string, interval time.Duration, budget int) error {
	m, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unsupported kind %q", kind)
	}

	subject := d.subject(m, kind, namespace, name)
	client := d.resource(m, namespace)
	remaining := budget

	for {
		list, err := client.List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("%s list failed: %w", subject, err)
		}

		present := false
		for _, item := range list.Items {
			if item.GetName() == name {
				present = true
				break
			}
		}
		if !present {
			return nil
		}

		if remaining <= 0 {
			return &TimeoutError{Budget: budget, Subject: subject}
		}

		if err := client.Delete(ctx, name, metav1.DeleteOptions{}); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("%s delete failed: %w", subject, err)
		}
		remaining--

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
