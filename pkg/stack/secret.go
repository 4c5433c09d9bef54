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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// BackupSecretName is the secret the Elasticsearch snapshot repository
	// reads its GCS key from.
	BackupSecretName = "gcs-backup-key"

	backupSecretKey = "gcs_backup_key.json"
)

var secretsResource = schema.GroupVersionResource{Version: "v1", Resource: "secrets"}

// CreateBackupSecret provisions the GCS backup key secret in the namespace.
// The key material is an opaque, already base64-encoded blob sourced from
// the environment; it is stored verbatim under the data field.
func (d *Deployer) CreateBackupSecret(ctx context.Context, namespace, encodedKey string) error {
	if encodedKey == "" {
		return fmt.Errorf("the backup key is empty")
	}

	secret := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       "Secret",
			"metadata": map[string]interface{}{
				"name": BackupSecretName,
			},
			"type": "Opaque",
			"data": map[string]interface{}{
				backupSecretKey: encodedKey,
			},
		},
	}

	_, err := d.client.Resource(secretsResource).Namespace(namespace).
		Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("creating secret %s/%s failed: %w", namespace, BackupSecretName, err)
	}

	d.log.Info("backup secret created", "namespace", namespace, "name", BackupSecretName)

	return nil
}
