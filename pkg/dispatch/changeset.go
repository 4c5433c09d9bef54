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

import "fmt"

// Action represents the outcome of dispatching one manifest document.
type Action string

const (
	// CreatedAction marks a resource created by this pass.
	CreatedAction Action = "created"
	// ExistingAction marks a resource whose creation hit an already-exists
	// conflict that is treated as success.
	ExistingAction Action = "existing"
	// DeletedAction marks a resource removed by this pass.
	DeletedAction Action = "deleted"
	// SkippedAction marks a document whose kind is outside the supported set.
	SkippedAction Action = "skipped"
)

// ChangeSet holds the per-resource outcomes of one orchestration pass.
type ChangeSet struct {
	Entries []ChangeSetEntry
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{Entries: []ChangeSetEntry{}}
}

func (c *ChangeSet) Add(e ChangeSetEntry) {
	c.Entries = append(c.Entries, e)
}

func (c *ChangeSet) Append(e []ChangeSetEntry) {
	c.Entries = append(c.Entries, e...)
}

// ChangeSetEntry defines the result of an action performed on an object.
type ChangeSetEntry struct {
	// Subject represents the object ID in the format 'kind/namespace/name'.
	Subject string
	// Action represents the action type taken by the dispatcher for this object.
	Action string
}

func (e ChangeSetEntry) String() string {
	return fmt.Sprintf("%s %s", e.Subject, e.Action)
}
