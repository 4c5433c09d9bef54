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

import "regexp"

// namespaceToken matches the substitution placeholder. A leading underscore
// marks the token as reserved, so the pattern captures an optional underscore
// and the replacement keeps those occurrences intact.
var namespaceToken = regexp.MustCompile(`_?NAMESPACE`)

// SubstituteNamespace replaces every NAMESPACE token not preceded by an
// underscore with the given namespace. The input is not modified; the
// rewritten copy and whether any substitution occurred are returned.
func SubstituteNamespace(data []byte, namespace string) ([]byte, bool) {
	changed := false
	out := namespaceToken.ReplaceAllFunc(data, func(match []byte) []byte {
		if match[0] == '_' {
			return match
		}
		changed = true
		return []byte(namespace)
	})

	return out, changed
}
