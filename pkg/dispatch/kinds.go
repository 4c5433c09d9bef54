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
	"sort"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// mapping binds a resource kind to its remote operations and scope.
// tolerateExisting marks kinds whose creation treats an already-exists
// conflict as success.
type mapping struct {
	gvr              schema.GroupVersionResource
	clusterScoped    bool
	tolerateExisting bool
}

// kinds is the closed set of resource kinds the dispatcher handles. Adding a
// kind here is all that is needed; the orchestration logic never changes.
var kinds = map[string]mapping{
	"StatefulSet":         {gvr: appsResource("statefulsets")},
	"DaemonSet":           {gvr: appsResource("daemonsets")},
	"Deployment":          {gvr: appsResource("deployments")},
	"Service":             {gvr: coreResource("services"), tolerateExisting: true},
	"PodDisruptionBudget": {gvr: schema.GroupVersionResource{Group: "policy", Version: "v1", Resource: "poddisruptionbudgets"}},
	"Role":                {gvr: rbacResource("roles")},
	"ClusterRole":         {gvr: rbacResource("clusterroles"), clusterScoped: true, tolerateExisting: true},
	"RoleBinding":         {gvr: rbacResource("rolebindings")},
	"ClusterRoleBinding":  {gvr: rbacResource("clusterrolebindings"), clusterScoped: true},
	"ConfigMap":           {gvr: coreResource("configmaps")},
	"ServiceAccount":      {gvr: coreResource("serviceaccounts")},
}

func coreResource(resource string) schema.GroupVersionResource {
	return schema.GroupVersionResource{Version: "v1", Resource: resource}
}

func appsResource(resource string) schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: resource}
}

func rbacResource(resource string) schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: "rbac.authorization.k8s.io", Version: "v1", Resource: resource}
}

// KnownKind returns whether the dispatcher handles the given kind.
func KnownKind(kind string) bool {
	_, ok := kinds[kind]
	return ok
}

// KindInfo describes a supported kind for reporting purposes.
type KindInfo struct {
	Kind             string
	ClusterScoped    bool
	TolerateExisting bool
}

// KnownKinds returns the supported kinds sorted by name.
func KnownKinds() []KindInfo {
	infos := make([]KindInfo, 0, len(kinds))
	for kind, m := range kinds {
		infos = append(infos, KindInfo{
			Kind:             kind,
			ClusterScoped:    m.clusterScoped,
			TolerateExisting: m.tolerateExisting,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Kind < infos[j].Kind
	})

	return infos
}
