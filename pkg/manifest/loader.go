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

package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

// OrderFile is the per-directory file listing manifest filenames in
// application order.
const OrderFile = "dep_order.txt"

// ParseError reports a bad ordering file or a malformed manifest document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s failed: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadOrder reads the ordering file of the given directory and returns the
// listed filenames in order. The file holds a single comma-separated line;
// whitespace around each entry is trimmed.
func ReadOrder(dir string) ([]string, error) {
	path := filepath.Join(dir, OrderFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	line, _, _ := strings.Cut(string(data), "\n")
	var entries []string
	for _, entry := range strings.Split(line, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("ordering file has no entries")}
	}

	return entries, nil
}

// Load reads the named manifest from dir, substitutes the namespace token and
// decodes the result into an unstructured object. It reports whether a
// substitution took place. The document must declare kind and metadata.name.
func Load(dir, filename, namespace string) (*unstructured.Unstructured, bool, error) {
	path := filepath.Join(dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, &ParseError{Path: path, Err: err}
	}

	data, changed := SubstituteNamespace(data, namespace)

	object, err := ReadObject(bytes.NewReader(data))
	if err != nil {
		return nil, changed, &ParseError{Path: path, Err: err}
	}

	if object.GetKind() == "" || object.GetName() == "" {
		return nil, changed, &ParseError{Path: path, Err: fmt.Errorf("document must declare kind and metadata.name")}
	}

	return object, changed, nil
}

// ReadObject decodes a YAML or JSON document from the given reader into an
// unstructured Kubernetes API object.
func ReadObject(r io.Reader) (*unstructured.Unstructured, error) {
	reader := yamlutil.NewYAMLOrJSONDecoder(r, 2048)
	obj := &unstructured.Unstructured{}
	err := reader.Decode(obj)
	if err != nil {
		return nil, err
	}

	return obj, nil
}
