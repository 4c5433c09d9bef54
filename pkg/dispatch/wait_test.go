package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/dynamic/fake"
	kscheme "k8s.io/client-go/kubernetes/scheme"
	k8stesting "k8s.io/client-go/testing"
)

func serviceList(names ...string) *unstructured.UnstructuredList {
	list := &unstructured.UnstructuredList{}
	list.SetAPIVersion("v1")
	list.SetKind("ServiceList")
	for _, name := range names {
		item := unstructured.Unstructured{}
		item.SetAPIVersion("v1")
		item.SetKind("Service")
		item.SetName(name)
		item.SetNamespace("test-ns")
		list.Items = append(list.Items, item)
	}
	return list
}

func TestWaitForDeletion(t *testing.T) {
	client := fake.NewSimpleDynamicClient(kscheme.Scheme)

	polls := 0
	deletes := 0
	client.PrependReactor("list", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
		polls++
		if polls > 3 {
			return true, serviceList(), nil
		}
		return true, serviceList("kibana"), nil
	})
	client.PrependReactor("delete", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
		deletes++
		return true, nil, nil
	})

	dispatcher := NewDispatcher(client)
	err := dispatcher.WaitForDeletion(context.Background(), "Service", "test-ns", "kibana", time.Millisecond, 15)
	if err != nil {
		t.Fatal(err)
	}

	if deletes > 3 {
		t.Errorf("expected at most 3 delete calls, got %d", deletes)
	}
	if polls != 4 {
		t.Errorf("expected 4 polls, got %d", polls)
	}
}

func TestWaitForDeletionTimeout(t *testing.T) {
	client := fake.NewSimpleDynamicClient(kscheme.Scheme)

	deletes := 0
	client.PrependReactor("list", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, serviceList("kibana"), nil
	})
	client.PrependReactor("delete", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
		deletes++
		return true, nil, nil
	})

	dispatcher := NewDispatcher(client)
	err := dispatcher.WaitForDeletion(context.Background(), "Service", "test-ns", "kibana", time.Millisecond, 5)
	if err == nil {
		t.Fatal("expected timeout error got none")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if timeoutErr.Budget != 5 {
		t.Errorf("expected budget 5 in error, got %d", timeoutErr.Budget)
	}
	if deletes != 5 {
		t.Errorf("expected the full delete budget to be spent, got %d", deletes)
	}
}

func TestWaitForDeletionAlreadyGone(t *testing.T) {
	client := fake.NewSimpleDynamicClient(kscheme.Scheme)

	deletes := 0
	client.PrependReactor("delete", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
		deletes++
		return true, nil, nil
	})

	dispatcher := NewDispatcher(client)
	err := dispatcher.WaitForDeletion(context.Background(), "Service", "test-ns", "kibana", time.Millisecond, 15)
	if err != nil {
		t.Fatal(err)
	}
	if deletes != 0 {
		t.Errorf("expected no delete calls, got %d", deletes)
	}
}

func TestWaitForDeletionUnsupportedKind(t *testing.T) {
	dispatcher := NewDispatcher(fake.NewSimpleDynamicClient(kscheme.Scheme))

	err := dispatcher.WaitForDeletion(context.Background(), "Gateway", "test-ns", "edge", time.Millisecond, 15)
	if err == nil {
		t.Fatal("expected error got none")
	}
}
